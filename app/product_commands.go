package app

import (
	"context"

	"presskit/cms/product"
	"presskit/cms/values"
)

// 产品聚合的命令名
const (
	CmdCreateProduct = "product.create"
	CmdUpdateProduct = "product.update"
	CmdDeleteProduct = "product.delete"
)

// CreateProduct 创建产品命令；ID 为空时生成并回写
type CreateProduct struct {
	ID            string
	Title         string
	Slug          string
	Body          string
	Author        string
	Sku           string
	Price         string
	Currency      string
	PurchaseURL   string
	ShowInMenu    int
	ShowInSearch  int
	FeaturedImage string
	Status        string
	Created       values.DateTime
	Published     values.DateTime
	Modified      values.DateTime
	Meta          map[string]string
}

func (c *CreateProduct) CommandName() string { return CmdCreateProduct }

// UpdateProduct 更新产品命令（补丁语义）
//
// Price 与 Currency 要么同时给出要么都不给。
type UpdateProduct struct {
	ID            string
	Title         *string
	Slug          *string
	Body          *string
	Author        *string
	Sku           *string
	Price         *string
	Currency      *string
	PurchaseURL   *string
	ShowInMenu    *int
	ShowInSearch  *int
	FeaturedImage *string
	Status        *string
	Published     *values.DateTime
	Modified      *values.DateTime
	Meta          map[string]string
}

func (c *UpdateProduct) CommandName() string { return CmdUpdateProduct }

// DeleteProduct 删除产品命令
type DeleteProduct struct {
	ID string
}

func (c *DeleteProduct) CommandName() string { return CmdDeleteProduct }

func (a *App) registerProductHandlers() {
	a.bus.MustRegister(CmdCreateProduct, a.handleCreateProduct)
	a.bus.MustRegister(CmdUpdateProduct, a.handleUpdateProduct)
	a.bus.MustRegister(CmdDeleteProduct, a.handleDeleteProduct)
}

func (a *App) handleCreateProduct(ctx context.Context, c ICommand) error {
	cmd, ok := c.(*CreateProduct)
	if !ok {
		return badCommand(CmdCreateProduct, c)
	}
	if cmd.ID == "" {
		cmd.ID = values.NewProductID().String()
	}

	price, err := values.NewMoney(cmd.Price, cmd.Currency)
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

	agg, err := product.Create(values.ProductID(cmd.ID), product.CreateParams{
		Title:         cmd.Title,
		Slug:          cmd.Slug,
		Body:          cmd.Body,
		Author:        values.UserID(cmd.Author),
		Sku:           cmd.Sku,
		Price:         price,
		PurchaseURL:   cmd.PurchaseURL,
		ShowInMenu:    showInMenu,
		ShowInSearch:  showInSearch,
		FeaturedImage: cmd.FeaturedImage,
		Status:        cmd.Status,
		Created:       cmd.Created,
		Published:     cmd.Published,
		Modified:      cmd.Modified,
		Meta:          cmd.Meta,
	})
	if err != nil {
		return err
	}
	return a.commitProduct(ctx, agg)
}

func (a *App) handleUpdateProduct(ctx context.Context, c ICommand) error {
	cmd, ok := c.(*UpdateProduct)
	if !ok {
		return badCommand(CmdUpdateProduct, c)
	}
	id, err := values.ParseProductID(cmd.ID)
	if err != nil {
		return err
	}
	agg, err := a.productRepo.GetByID(ctx, id)
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
	if cmd.Sku != nil {
		if err := agg.ChangeSku(*cmd.Sku); err != nil {
			return err
		}
	}
	if cmd.Price != nil || cmd.Currency != nil {
		var amount, currency string
		if cmd.Price != nil {
			amount = *cmd.Price
		}
		if cmd.Currency != nil {
			currency = *cmd.Currency
		}
		price, err := values.NewMoney(amount, currency)
		if err != nil {
			return err
		}
		if err := agg.ChangePrice(price); err != nil {
			return err
		}
	}
	if cmd.PurchaseURL != nil {
		if err := agg.ChangePurchaseURL(*cmd.PurchaseURL); err != nil {
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

	return a.commitProduct(ctx, agg)
}

func (a *App) handleDeleteProduct(ctx context.Context, c ICommand) error {
	cmd, ok := c.(*DeleteProduct)
	if !ok {
		return badCommand(CmdDeleteProduct, c)
	}
	id, err := values.ParseProductID(cmd.ID)
	if err != nil {
		return err
	}
	agg, err := a.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := agg.Delete(id); err != nil {
		return err
	}
	return a.commitProduct(ctx, agg)
}

func (a *App) commitProduct(ctx context.Context, agg *product.Product) error {
	uow := a.newUnitOfWork()
	uow.Track(agg, func(ctx context.Context) error { return a.productRepo.Save(ctx, agg) })
	return uow.Commit(ctx)
}
