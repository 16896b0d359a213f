package app

import (
	"context"

	"presskit/cms/site"
	"presskit/cms/values"
)

// 站点聚合的命令名
const (
	CmdCreateSite = "site.create"
	CmdUpdateSite = "site.update"
	CmdDeleteSite = "site.delete"
)

// CreateSite 创建站点命令；ID 为空时生成并回写
type CreateSite struct {
	ID         string
	Key        string
	Name       string
	Slug       string
	Domain     string
	Mapping    string
	Path       string
	Owner      string
	Status     string
	Registered values.DateTime
	Modified   values.DateTime
}

func (c *CreateSite) CommandName() string { return CmdCreateSite }

// UpdateSite 更新站点命令（补丁语义）
type UpdateSite struct {
	ID       string
	Name     *string
	Slug     *string
	Domain   *string
	Mapping  *string
	Path     *string
	Owner    *string
	Status   *string
	Modified *values.DateTime
}

func (c *UpdateSite) CommandName() string { return CmdUpdateSite }

// DeleteSite 删除站点命令
type DeleteSite struct {
	ID string
}

func (c *DeleteSite) CommandName() string { return CmdDeleteSite }

func (a *App) registerSiteHandlers() {
	a.bus.MustRegister(CmdCreateSite, a.handleCreateSite)
	a.bus.MustRegister(CmdUpdateSite, a.handleUpdateSite)
	a.bus.MustRegister(CmdDeleteSite, a.handleDeleteSite)
}

func (a *App) handleCreateSite(ctx context.Context, c ICommand) error {
	cmd, ok := c.(*CreateSite)
	if !ok {
		return badCommand(CmdCreateSite, c)
	}
	if cmd.ID == "" {
		cmd.ID = values.NewSiteID().String()
	}

	agg, err := site.Create(values.SiteID(cmd.ID), site.CreateParams{
		Key:        cmd.Key,
		Name:       cmd.Name,
		Slug:       cmd.Slug,
		Domain:     cmd.Domain,
		Mapping:    cmd.Mapping,
		Path:       cmd.Path,
		Owner:      values.UserID(cmd.Owner),
		Status:     cmd.Status,
		Registered: cmd.Registered,
		Modified:   cmd.Modified,
	})
	if err != nil {
		return err
	}
	return a.commitSite(ctx, agg)
}

func (a *App) handleUpdateSite(ctx context.Context, c ICommand) error {
	cmd, ok := c.(*UpdateSite)
	if !ok {
		return badCommand(CmdUpdateSite, c)
	}
	id, err := values.ParseSiteID(cmd.ID)
	if err != nil {
		return err
	}
	agg, err := a.siteRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Name != nil {
		if err := agg.ChangeName(*cmd.Name); err != nil {
			return err
		}
	}
	if cmd.Slug != nil {
		if err := agg.ChangeSlug(*cmd.Slug); err != nil {
			return err
		}
	}
	if cmd.Domain != nil {
		if err := agg.ChangeDomain(*cmd.Domain); err != nil {
			return err
		}
	}
	if cmd.Mapping != nil {
		if err := agg.ChangeMapping(*cmd.Mapping); err != nil {
			return err
		}
	}
	if cmd.Path != nil {
		if err := agg.ChangePath(*cmd.Path); err != nil {
			return err
		}
	}
	if cmd.Owner != nil {
		owner, err := values.ParseUserID(*cmd.Owner)
		if err != nil {
			return err
		}
		if err := agg.ChangeOwner(owner); err != nil {
			return err
		}
	}
	if cmd.Status != nil {
		if err := agg.ChangeStatus(*cmd.Status); err != nil {
			return err
		}
	}
	if cmd.Modified != nil {
		if err := agg.ChangeModified(*cmd.Modified); err != nil {
			return err
		}
	}

	return a.commitSite(ctx, agg)
}

func (a *App) handleDeleteSite(ctx context.Context, c ICommand) error {
	cmd, ok := c.(*DeleteSite)
	if !ok {
		return badCommand(CmdDeleteSite, c)
	}
	id, err := values.ParseSiteID(cmd.ID)
	if err != nil {
		return err
	}
	agg, err := a.siteRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := agg.Delete(id); err != nil {
		return err
	}
	return a.commitSite(ctx, agg)
}

func (a *App) commitSite(ctx context.Context, agg *site.Site) error {
	uow := a.newUnitOfWork()
	uow.Track(agg, func(ctx context.Context) error { return a.siteRepo.Save(ctx, agg) })
	return uow.Commit(ctx)
}
