package app

import (
	"context"
	"fmt"

	"presskit/cms/content"
	"presskit/cms/values"
	"presskit/errors"
)

// 内容聚合的命令名
const (
	CmdCreateContent       = "content.create"
	CmdUpdateContent       = "content.update"
	CmdDeleteContent       = "content.delete"
	CmdRemoveContentParent = "content.remove_parent"
)

// CreateContent 创建内容命令
//
// ID 为空时生成并回写，调用方从命令实例读取新 ID。
type CreateContent struct {
	ID            string
	Title         string
	Slug          string
	Body          string
	Author        string
	Type          string
	Parent        *string
	Sidebar       int
	ShowInMenu    int
	ShowInSearch  int
	FeaturedImage string
	Status        string
	Created       values.DateTime
	Published     values.DateTime
	Modified      values.DateTime
	Meta          map[string]string
}

func (c *CreateContent) CommandName() string { return CmdCreateContent }

// UpdateContent 更新内容命令（补丁语义）
//
// nil 字段不触碰；与当前值相同的字段是结构性空操作。
type UpdateContent struct {
	ID            string
	Title         *string
	Slug          *string
	Body          *string
	Author        *string
	Type          *string
	Parent        *string
	Sidebar       *int
	ShowInMenu    *int
	ShowInSearch  *int
	FeaturedImage *string
	Status        *string
	Published     *values.DateTime
	Modified      *values.DateTime
	Meta          map[string]string
}

func (c *UpdateContent) CommandName() string { return CmdUpdateContent }

// DeleteContent 删除内容命令
type DeleteContent struct {
	ID string
}

func (c *DeleteContent) CommandName() string { return CmdDeleteContent }

// RemoveContentParent 摘除父引用命令
//
// Parent 必须与当前父引用一致，不一致时静默忽略。
type RemoveContentParent struct {
	ID     string
	Parent string
}

func (c *RemoveContentParent) CommandName() string { return CmdRemoveContentParent }

func (a *App) registerContentHandlers() {
	a.bus.MustRegister(CmdCreateContent, a.handleCreateContent)
	a.bus.MustRegister(CmdUpdateContent, a.handleUpdateContent)
	a.bus.MustRegister(CmdDeleteContent, a.handleDeleteContent)
	a.bus.MustRegister(CmdRemoveContentParent, a.handleRemoveContentParent)
}

func (a *App) handleCreateContent(ctx context.Context, c ICommand) error {
	cmd, ok := c.(*CreateContent)
	if !ok {
		return badCommand(CmdCreateContent, c)
	}
	if cmd.ID == "" {
		cmd.ID = values.NewContentID().String()
	}

	sidebar, err := values.NewIntFlag(cmd.Sidebar)
	if err != nil {
		return err
	}
	showInMenu, err := values.NewIntFlag(cmd.ShowInMenu)
	if err != nil {
		return err
	}
	showInSearch, err := values.NewIntFlag(cmd.ShowInSearch)
	if err != nil {
		return err
	}

	params := content.CreateParams{
		Title:         cmd.Title,
		Slug:          cmd.Slug,
		Body:          cmd.Body,
		Author:        values.UserID(cmd.Author),
		Type:          cmd.Type,
		Sidebar:       sidebar,
		ShowInMenu:    showInMenu,
		ShowInSearch:  showInSearch,
		FeaturedImage: cmd.FeaturedImage,
		Status:        cmd.Status,
		Created:       cmd.Created,
		Published:     cmd.Published,
		Modified:      cmd.Modified,
		Meta:          cmd.Meta,
	}
	if cmd.Parent != nil {
		parent, err := values.ParseContentID(*cmd.Parent)
		if err != nil {
			return err
		}
		params.Parent = &parent
	}

	agg, err := content.Create(values.ContentID(cmd.ID), params)
	if err != nil {
		return err
	}
	return a.commitContent(ctx, agg)
}

func (a *App) handleUpdateContent(ctx context.Context, c ICommand) error {
	cmd, ok := c.(*UpdateContent)
	if !ok {
		return badCommand(CmdUpdateContent, c)
	}
	id, err := values.ParseContentID(cmd.ID)
	if err != nil {
		return err
	}
	agg, err := a.contentRepo.GetByID(ctx, id)
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
	if cmd.Body != nil {
		if err := agg.ChangeBody(*cmd.Body); err != nil {
			return err
		}
	}
	if cmd.Author != nil {
		author, err := values.ParseUserID(*cmd.Author)
		if err != nil {
			return err
		}
		if err := agg.ChangeAuthor(author); err != nil {
			return err
		}
	}
	if cmd.Type != nil {
		if err := agg.ChangeType(*cmd.Type); err != nil {
			return err
		}
	}
	if cmd.Parent != nil {
		parent, err := values.ParseContentID(*cmd.Parent)
		if err != nil {
			return err
		}
		if err := agg.ChangeParent(parent); err != nil {
			return err
		}
	}
	if cmd.Sidebar != nil {
		flag, err := values.NewIntFlag(*cmd.Sidebar)
		if err != nil {
			return err
		}
		if err := agg.ChangeSidebar(flag); err != nil {
			return err
		}
	}
	if cmd.ShowInMenu != nil {
		flag, err := values.NewIntFlag(*cmd.ShowInMenu)
		if err != nil {
			return err
		}
		if err := agg.ChangeShowInMenu(flag); err != nil {
			return err
		}
	}
	if cmd.ShowInSearch != nil {
		flag, err := values.NewIntFlag(*cmd.ShowInSearch)
		if err != nil {
			return err
		}
		if err := agg.ChangeShowInSearch(flag); err != nil {
			return err
		}
	}
	if cmd.FeaturedImage != nil {
		if err := agg.ChangeFeaturedImage(*cmd.FeaturedImage); err != nil {
			return err
		}
	}
	if cmd.Status != nil {
		if err := agg.ChangeStatus(*cmd.Status); err != nil {
			return err
		}
	}
	if cmd.Published != nil {
		if err := agg.ChangePublished(*cmd.Published); err != nil {
			return err
		}
	}
	if cmd.Modified != nil {
		if err := agg.ChangeModified(*cmd.Modified); err != nil {
			return err
		}
	}
	if cmd.Meta != nil {
		if err := agg.ChangeMeta(cmd.Meta); err != nil {
			return err
		}
	}

	return a.commitContent(ctx, agg)
}

func (a *App) handleDeleteContent(ctx context.Context, c ICommand) error {
	cmd, ok := c.(*DeleteContent)
	if !ok {
		return badCommand(CmdDeleteContent, c)
	}
	id, err := values.ParseContentID(cmd.ID)
	if err != nil {
		return err
	}
	agg, err := a.contentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := agg.Delete(id); err != nil {
		return err
	}
	return a.commitContent(ctx, agg)
}

func (a *App) handleRemoveContentParent(ctx context.Context, c ICommand) error {
	cmd, ok := c.(*RemoveContentParent)
	if !ok {
		return badCommand(CmdRemoveContentParent, c)
	}
	id, err := values.ParseContentID(cmd.ID)
	if err != nil {
		return err
	}
	parent, err := values.ParseContentID(cmd.Parent)
	if err != nil {
		return err
	}
	agg, err := a.contentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := agg.RemoveParent(parent); err != nil {
		return err
	}
	return a.commitContent(ctx, agg)
}

func (a *App) commitContent(ctx context.Context, agg *content.Content) error {
	uow := a.newUnitOfWork()
	uow.Track(agg, func(ctx context.Context) error { return a.contentRepo.Save(ctx, agg) })
	return uow.Commit(ctx)
}

func badCommand(name string, got ICommand) error {
	return errors.NewError(errors.ErrCodeInvalidInput, fmt.Sprintf("unexpected payload %T for command %s", got, name))
}
