package app

import (
	"context"

	"presskit/cms/user"
	"presskit/cms/values"
)

// 用户聚合的命令名
const (
	CmdCreateUser             = "user.create"
	CmdUpdateUser             = "user.update"
	CmdDeleteUser             = "user.delete"
	CmdResetUserActivationKey = "user.reset_activation_key"
)

// CreateUser 创建用户命令；ID 为空时生成并回写
type CreateUser struct {
	ID            string
	Login         string
	Fname         string
	Lname         string
	Email         string
	Url           string
	Timezone      string
	Locale        string
	Registered    values.DateTime
	Modified      values.DateTime
	ActivationKey string
	Meta          map[string]string
}

func (c *CreateUser) CommandName() string { return CmdCreateUser }

// UpdateUser 更新用户命令（补丁语义）
//
// Fname 与 Lname 要么同时给出要么都不给（姓名整体变更）。
type UpdateUser struct {
	ID       string
	Login    *string
	Fname    *string
	Lname    *string
	Email    *string
	Url      *string
	Timezone *string
	Locale   *string
	Modified *values.DateTime
	Meta     map[string]string
}

func (c *UpdateUser) CommandName() string { return CmdUpdateUser }

// DeleteUser 删除用户命令
type DeleteUser struct {
	ID string
}

func (c *DeleteUser) CommandName() string { return CmdDeleteUser }

// ResetUserActivationKey 重置激活密钥命令；空密钥表示清除
type ResetUserActivationKey struct {
	ID            string
	ActivationKey string
}

func (c *ResetUserActivationKey) CommandName() string { return CmdResetUserActivationKey }

func (a *App) registerUserHandlers() {
	a.bus.MustRegister(CmdCreateUser, a.handleCreateUser)
	a.bus.MustRegister(CmdUpdateUser, a.handleUpdateUser)
	a.bus.MustRegister(CmdDeleteUser, a.handleDeleteUser)
	a.bus.MustRegister(CmdResetUserActivationKey, a.handleResetUserActivationKey)
}

func (a *App) handleCreateUser(ctx context.Context, c ICommand) error {
	cmd, ok := c.(*CreateUser)
	if !ok {
		return badCommand(CmdCreateUser, c)
	}
	if cmd.ID == "" {
		cmd.ID = values.NewUserID().String()
	}

	agg, err := user.Create(values.UserID(cmd.ID), user.CreateParams{
		Login:         cmd.Login,
		Fname:         cmd.Fname,
		Lname:         cmd.Lname,
		Email:         cmd.Email,
		Url:           cmd.Url,
		Timezone:      cmd.Timezone,
		Locale:        cmd.Locale,
		Registered:    cmd.Registered,
		Modified:      cmd.Modified,
		ActivationKey: cmd.ActivationKey,
		Meta:          cmd.Meta,
	})
	if err != nil {
		return err
	}
	return a.commitUser(ctx, agg)
}

func (a *App) handleUpdateUser(ctx context.Context, c ICommand) error {
	cmd, ok := c.(*UpdateUser)
	if !ok {
		return badCommand(CmdUpdateUser, c)
	}
	id, err := values.ParseUserID(cmd.ID)
	if err != nil {
		return err
	}
	agg, err := a.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Login != nil {
		if err := agg.ChangeLogin(*cmd.Login); err != nil {
			return err
		}
	}
	if cmd.Fname != nil || cmd.Lname != nil {
		fname, lname := agg.Fname(), agg.Lname()
		if cmd.Fname != nil {
			fname = *cmd.Fname
		}
		if cmd.Lname != nil {
			lname = *cmd.Lname
		}
		if err := agg.ChangeName(fname, lname); err != nil {
			return err
		}
	}
	if cmd.Email != nil {
		if err := agg.ChangeEmail(*cmd.Email); err != nil {
			return err
		}
	}
	if cmd.Url != nil {
		if err := agg.ChangeUrl(*cmd.Url); err != nil {
			return err
		}
	}
	if cmd.Timezone != nil {
		if err := agg.ChangeTimezone(*cmd.Timezone); err != nil {
			return err
		}
	}
	if cmd.Locale != nil {
		if err := agg.ChangeLocale(*cmd.Locale); err != nil {
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

	return a.commitUser(ctx, agg)
}

func (a *App) handleDeleteUser(ctx context.Context, c ICommand) error {
	cmd, ok := c.(*DeleteUser)
	if !ok {
		return badCommand(CmdDeleteUser, c)
	}
	id, err := values.ParseUserID(cmd.ID)
	if err != nil {
		return err
	}
	agg, err := a.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := agg.Delete(id); err != nil {
		return err
	}
	return a.commitUser(ctx, agg)
}

func (a *App) handleResetUserActivationKey(ctx context.Context, c ICommand) error {
	cmd, ok := c.(*ResetUserActivationKey)
	if !ok {
		return badCommand(CmdResetUserActivationKey, c)
	}
	id, err := values.ParseUserID(cmd.ID)
	if err != nil {
		return err
	}
	agg, err := a.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := agg.ResetActivationKey(cmd.ActivationKey); err != nil {
		return err
	}
	return a.commitUser(ctx, agg)
}

func (a *App) commitUser(ctx context.Context, agg *user.User) error {
	uow := a.newUnitOfWork()
	uow.Track(agg, func(ctx context.Context) error { return a.userRepo.Save(ctx, agg) })
	return uow.Commit(ctx)
}
