package app

import (
	"context"

	"presskit/cms/contenttype"
	"presskit/cms/values"
)

// 内容类型聚合的命令名
const (
	CmdCreateContentType = "content_type.create"
	CmdUpdateContentType = "content_type.update"
	CmdDeleteContentType = "content_type.delete"
)

// CreateContentType 创建内容类型命令；ID 为空时生成并回写
type CreateContentType struct {
	ID          string
	Title       string
	Slug        string
	Description string
}

func (c *CreateContentType) CommandName() string { return CmdCreateContentType }

// UpdateContentType 更新内容类型命令（补丁语义）
type UpdateContentType struct {
	ID          string
	Title       *string
	Slug        *string
	Description *string
}

func (c *UpdateContentType) CommandName() string { return CmdUpdateContentType }

// DeleteContentType 删除内容类型命令
type DeleteContentType struct {
	ID string
}

func (c *DeleteContentType) CommandName() string { return CmdDeleteContentType }

func (a *App) registerContentTypeHandlers() {
	a.bus.MustRegister(CmdCreateContentType, a.handleCreateContentType)
	a.bus.MustRegister(CmdUpdateContentType, a.handleUpdateContentType)
	a.bus.MustRegister(CmdDeleteContentType, a.handleDeleteContentType)
}

func (a *App) handleCreateContentType(ctx context.Context, c ICommand) error {
	cmd, ok := c.(*CreateContentType)
	if !ok {
		return badCommand(CmdCreateContentType, c)
	}
	if cmd.ID == "" {
		cmd.ID = values.NewContentTypeID().String()
	}

	agg, err := contenttype.Create(values.ContentTypeID(cmd.ID), contenttype.CreateParams{
		Title:       cmd.Title,
		Slug:        cmd.Slug,
		Description: cmd.Description,
	})
	if err != nil {
		return err
	}
	return a.commitContentType(ctx, agg)
}

func (a *App) handleUpdateContentType(ctx context.Context, c ICommand) error {
	cmd, ok := c.(*UpdateContentType)
	if !ok {
		return badCommand(CmdUpdateContentType, c)
	}
	id, err := values.ParseContentTypeID(cmd.ID)
	if err != nil {
		return err
	}
	agg, err := a.contentTypeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Title != nil {
		if err := agg.ChangeTitle(*cmd.Title); err != nil {
			return err
		}
	}
	if cmd.Slug != nil {
		if err := agg.ChangeSlug(*cmd.Slug); err != nil {
			return err
		}
	}
	if cmd.Description != nil {
		if err := agg.ChangeDescription(*cmd.Description); err != nil {
			return err
		}
	}

	return a.commitContentType(ctx, agg)
}

func (a *App) handleDeleteContentType(ctx context.Context, c ICommand) error {
	cmd, ok := c.(*DeleteContentType)
	if !ok {
		return badCommand(CmdDeleteContentType, c)
	}
	id, err := values.ParseContentTypeID(cmd.ID)
	if err != nil {
		return err
	}
	agg, err := a.contentTypeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := agg.Delete(id); err != nil {
		return err
	}
	return a.commitContentType(ctx, agg)
}

func (a *App) commitContentType(ctx context.Context, agg *contenttype.ContentType) error {
	uow := a.newUnitOfWork()
	uow.Track(agg, func(ctx context.Context) error { return a.contentTypeRepo.Save(ctx, agg) })
	return uow.Commit(ctx)
}
