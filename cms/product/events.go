// Package product 实现产品聚合：事件、状态变更、读模型投影与查询
package product

import (
	"presskit/cms/values"
	"presskit/errors"
	"presskit/eventing/registry"
)

// 产品聚合的事件类型名
const (
	EventProductWasCreated              = "ProductWasCreated"
	EventProductTitleWasChanged         = "ProductTitleWasChanged"
	EventProductSlugWasChanged          = "ProductSlugWasChanged"
	EventProductBodyWasChanged          = "ProductBodyWasChanged"
	EventProductAuthorWasChanged        = "ProductAuthorWasChanged"
	EventProductSkuWasChanged           = "ProductSkuWasChanged"
	EventProductPriceWasChanged         = "ProductPriceWasChanged"
	EventProductPurchaseURLWasChanged   = "ProductPurchaseURLWasChanged"
	EventProductShowInMenuWasChanged    = "ProductShowInMenuWasChanged"
	EventProductShowInSearchWasChanged  = "ProductShowInSearchWasChanged"
	EventProductFeaturedImageWasChanged = "ProductFeaturedImageWasChanged"
	EventProductStatusWasChanged        = "ProductStatusWasChanged"
	EventProductPublishedWasChanged     = "ProductPublishedWasChanged"
	EventProductModifiedWasChanged      = "ProductModifiedWasChanged"
	EventProductMetaWasChanged          = "ProductMetaWasChanged"
	EventProductWasDeleted              = "ProductWasDeleted"
)

// ProductWasCreated 产品创建事件
//
// 金额拆为十进制字符串与货币代码两个原生字段存储。
type ProductWasCreated struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Slug          string            `json:"slug"`
	Body          string            `json:"body"`
	Author        string            `json:"author"`
	Sku           string            `json:"sku"`
	Price         string            `json:"price"`
	Currency      string            `json:"currency"`
	PurchaseURL   string            `json:"purchase_url"`
	ShowInMenu    int               `json:"show_in_menu"`
	ShowInSearch  int               `json:"show_in_search"`
	FeaturedImage string            `json:"featured_image"`
	Status        string            `json:"status"`
	Created       string            `json:"created"`
	CreatedGMT    string            `json:"created_gmt"`
	Published     string            `json:"published"`
	PublishedGMT  string            `json:"published_gmt"`
	Modified      string            `json:"modified"`
	ModifiedGMT   string            `json:"modified_gmt"`
	Meta          map[string]string `json:"meta,omitempty"`
}

// NewProductWasCreated 由已校验的领域值构造创建事件
func NewProductWasCreated(id values.ProductID, p CreateParams) *ProductWasCreated {
	return &ProductWasCreated{
		ID:            id.String(),
		Title:         p.Title,
		Slug:          p.Slug,
		Body:          p.Body,
		Author:        p.Author.String(),
		Sku:           p.Sku,
		Price:         p.Price.Amount(),
		Currency:      p.Price.Currency(),
		PurchaseURL:   p.PurchaseURL,
		ShowInMenu:    p.ShowInMenu.Int(),
		ShowInSearch:  p.ShowInSearch.Int(),
		FeaturedImage: p.FeaturedImage,
		Status:        p.Status,
		Created:       p.Created.String(),
		CreatedGMT:    p.Created.GMT().String(),
		Published:     p.Published.String(),
		PublishedGMT:  p.Published.GMT().String(),
		Modified:      p.Modified.String(),
		ModifiedGMT:   p.Modified.GMT().String(),
		Meta:          copyMeta(p.Meta),
	}
}

func (e *ProductWasCreated) EventType() string { return EventProductWasCreated }

// ProductID 反序列化聚合标识
func (e *ProductWasCreated) ProductID() (values.ProductID, error) { return parseProductID(e.ID) }

// PriceMoney 反序列化金额值
func (e *ProductWasCreated) PriceMoney() (values.Money, error) {
	return values.ParseMoney(e.Price, e.Currency)
}

// CreatedAt 反序列化创建时间
func (e *ProductWasCreated) CreatedAt() (values.DateTime, error) {
	return values.ParseDateTime(e.Created)
}

// PublishedAt 反序列化发布时间
func (e *ProductWasCreated) PublishedAt() (values.DateTime, error) {
	return values.ParseDateTime(e.Published)
}

// ModifiedAt 反序列化修改时间
func (e *ProductWasCreated) ModifiedAt() (values.DateTime, error) {
	return values.ParseDateTime(e.Modified)
}

// ProductTitleWasChanged 标题变更事件
type ProductTitleWasChanged struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func NewProductTitleWasChanged(id values.ProductID, title string) *ProductTitleWasChanged {
	return &ProductTitleWasChanged{ID: id.String(), Title: title}
}

func (e *ProductTitleWasChanged) EventType() string { return EventProductTitleWasChanged }

func (e *ProductTitleWasChanged) ProductID() (values.ProductID, error) { return parseProductID(e.ID) }

// ProductSlugWasChanged 别名变更事件
type ProductSlugWasChanged struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

func NewProductSlugWasChanged(id values.ProductID, slug string) *ProductSlugWasChanged {
	return &ProductSlugWasChanged{ID: id.String(), Slug: slug}
}

func (e *ProductSlugWasChanged) EventType() string { return EventProductSlugWasChanged }

func (e *ProductSlugWasChanged) ProductID() (values.ProductID, error) { return parseProductID(e.ID) }

// ProductBodyWasChanged 正文变更事件
type ProductBodyWasChanged struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

func NewProductBodyWasChanged(id values.ProductID, body string) *ProductBodyWasChanged {
	return &ProductBodyWasChanged{ID: id.String(), Body: body}
}

func (e *ProductBodyWasChanged) EventType() string { return EventProductBodyWasChanged }

func (e *ProductBodyWasChanged) ProductID() (values.ProductID, error) { return parseProductID(e.ID) }

// ProductAuthorWasChanged 作者变更事件
type ProductAuthorWasChanged struct {
	ID     string `json:"id"`
	Author string `json:"author"`
}

func NewProductAuthorWasChanged(id values.ProductID, author values.UserID) *ProductAuthorWasChanged {
	return &ProductAuthorWasChanged{ID: id.String(), Author: author.String()}
}

func (e *ProductAuthorWasChanged) EventType() string { return EventProductAuthorWasChanged }

func (e *ProductAuthorWasChanged) ProductID() (values.ProductID, error) { return parseProductID(e.ID) }

// ProductSkuWasChanged SKU 变更事件
type ProductSkuWasChanged struct {
	ID  string `json:"id"`
	Sku string `json:"sku"`
}

func NewProductSkuWasChanged(id values.ProductID, sku string) *ProductSkuWasChanged {
	return &ProductSkuWasChanged{ID: id.String(), Sku: sku}
}

func (e *ProductSkuWasChanged) EventType() string { return EventProductSkuWasChanged }

func (e *ProductSkuWasChanged) ProductID() (values.ProductID, error) { return parseProductID(e.ID) }

// ProductPriceWasChanged 价格变更事件
type ProductPriceWasChanged struct {
	ID       string `json:"id"`
	Price    string `json:"price"`
	Currency string `json:"currency"`
}

func NewProductPriceWasChanged(id values.ProductID, price values.Money) *ProductPriceWasChanged {
	return &ProductPriceWasChanged{ID: id.String(), Price: price.Amount(), Currency: price.Currency()}
}

func (e *ProductPriceWasChanged) EventType() string { return EventProductPriceWasChanged }

func (e *ProductPriceWasChanged) ProductID() (values.ProductID, error) { return parseProductID(e.ID) }

// PriceMoney 反序列化金额值
func (e *ProductPriceWasChanged) PriceMoney() (values.Money, error) {
	return values.ParseMoney(e.Price, e.Currency)
}

// ProductPurchaseURLWasChanged 购买链接变更事件
type ProductPurchaseURLWasChanged struct {
	ID          string `json:"id"`
	PurchaseURL string `json:"purchase_url"`
}

func NewProductPurchaseURLWasChanged(id values.ProductID, url string) *ProductPurchaseURLWasChanged {
	return &ProductPurchaseURLWasChanged{ID: id.String(), PurchaseURL: url}
}

func (e *ProductPurchaseURLWasChanged) EventType() string { return EventProductPurchaseURLWasChanged }

func (e *ProductPurchaseURLWasChanged) ProductID() (values.ProductID, error) {
	return parseProductID(e.ID)
}

// ProductShowInMenuWasChanged 菜单可见标记变更事件
type ProductShowInMenuWasChanged struct {
	ID         string `json:"id"`
	ShowInMenu int    `json:"show_in_menu"`
}

func NewProductShowInMenuWasChanged(id values.ProductID, flag values.IntFlag) *ProductShowInMenuWasChanged {
	return &ProductShowInMenuWasChanged{ID: id.String(), ShowInMenu: flag.Int()}
}

func (e *ProductShowInMenuWasChanged) EventType() string { return EventProductShowInMenuWasChanged }

func (e *ProductShowInMenuWasChanged) ProductID() (values.ProductID, error) {
	return parseProductID(e.ID)
}

// ProductShowInSearchWasChanged 搜索可见标记变更事件
type ProductShowInSearchWasChanged struct {
	ID           string `json:"id"`
	ShowInSearch int    `json:"show_in_search"`
}

func NewProductShowInSearchWasChanged(id values.ProductID, flag values.IntFlag) *ProductShowInSearchWasChanged {
	return &ProductShowInSearchWasChanged{ID: id.String(), ShowInSearch: flag.Int()}
}

func (e *ProductShowInSearchWasChanged) EventType() string { return EventProductShowInSearchWasChanged }

func (e *ProductShowInSearchWasChanged) ProductID() (values.ProductID, error) {
	return parseProductID(e.ID)
}

// ProductFeaturedImageWasChanged 特色图片变更事件
type ProductFeaturedImageWasChanged struct {
	ID            string `json:"id"`
	FeaturedImage string `json:"featured_image"`
}

func NewProductFeaturedImageWasChanged(id values.ProductID, image string) *ProductFeaturedImageWasChanged {
	return &ProductFeaturedImageWasChanged{ID: id.String(), FeaturedImage: image}
}

func (e *ProductFeaturedImageWasChanged) EventType() string {
	return EventProductFeaturedImageWasChanged
}

func (e *ProductFeaturedImageWasChanged) ProductID() (values.ProductID, error) {
	return parseProductID(e.ID)
}

// ProductStatusWasChanged 状态变更事件
type ProductStatusWasChanged struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func NewProductStatusWasChanged(id values.ProductID, status string) *ProductStatusWasChanged {
	return &ProductStatusWasChanged{ID: id.String(), Status: status}
}

func (e *ProductStatusWasChanged) EventType() string { return EventProductStatusWasChanged }

func (e *ProductStatusWasChanged) ProductID() (values.ProductID, error) { return parseProductID(e.ID) }

// ProductPublishedWasChanged 发布时间变更事件
type ProductPublishedWasChanged struct {
	ID           string `json:"id"`
	Published    string `json:"published"`
	PublishedGMT string `json:"published_gmt"`
}

func NewProductPublishedWasChanged(id values.ProductID, published values.DateTime) *ProductPublishedWasChanged {
	return &ProductPublishedWasChanged{
		ID:           id.String(),
		Published:    published.String(),
		PublishedGMT: published.GMT().String(),
	}
}

func (e *ProductPublishedWasChanged) EventType() string { return EventProductPublishedWasChanged }

func (e *ProductPublishedWasChanged) ProductID() (values.ProductID, error) {
	return parseProductID(e.ID)
}

// PublishedAt 反序列化发布时间
func (e *ProductPublishedWasChanged) PublishedAt() (values.DateTime, error) {
	return values.ParseDateTime(e.Published)
}

// ProductModifiedWasChanged 修改时间变更事件
type ProductModifiedWasChanged struct {
	ID          string `json:"id"`
	Modified    string `json:"modified"`
	ModifiedGMT string `json:"modified_gmt"`
}

func NewProductModifiedWasChanged(id values.ProductID, modified values.DateTime) *ProductModifiedWasChanged {
	return &ProductModifiedWasChanged{
		ID:          id.String(),
		Modified:    modified.String(),
		ModifiedGMT: modified.GMT().String(),
	}
}

func (e *ProductModifiedWasChanged) EventType() string { return EventProductModifiedWasChanged }

func (e *ProductModifiedWasChanged) ProductID() (values.ProductID, error) {
	return parseProductID(e.ID)
}

// ModifiedAt 反序列化修改时间
func (e *ProductModifiedWasChanged) ModifiedAt() (values.DateTime, error) {
	return values.ParseDateTime(e.Modified)
}

// ProductMetaWasChanged 元数据整体变更事件
type ProductMetaWasChanged struct {
	ID   string            `json:"id"`
	Meta map[string]string `json:"meta"`
}

func NewProductMetaWasChanged(id values.ProductID, meta map[string]string) *ProductMetaWasChanged {
	return &ProductMetaWasChanged{ID: id.String(), Meta: copyMeta(meta)}
}

func (e *ProductMetaWasChanged) EventType() string { return EventProductMetaWasChanged }

func (e *ProductMetaWasChanged) ProductID() (values.ProductID, error) { return parseProductID(e.ID) }

// ProductWasDeleted 产品删除事件（终态）
type ProductWasDeleted struct {
	ID string `json:"id"`
}

func NewProductWasDeleted(id values.ProductID) *ProductWasDeleted {
	return &ProductWasDeleted{ID: id.String()}
}

func (e *ProductWasDeleted) EventType() string { return EventProductWasDeleted }

func (e *ProductWasDeleted) ProductID() (values.ProductID, error) { return parseProductID(e.ID) }

// RegisterEvents 将产品聚合的全部事件类型注册到反序列化注册表
func RegisterEvents(r *registry.Registry) error {
	factories := map[string]registry.EventFactory{
		EventProductWasCreated:              func() any { return &ProductWasCreated{} },
		EventProductTitleWasChanged:         func() any { return &ProductTitleWasChanged{} },
		EventProductSlugWasChanged:          func() any { return &ProductSlugWasChanged{} },
		EventProductBodyWasChanged:          func() any { return &ProductBodyWasChanged{} },
		EventProductAuthorWasChanged:        func() any { return &ProductAuthorWasChanged{} },
		EventProductSkuWasChanged:           func() any { return &ProductSkuWasChanged{} },
		EventProductPriceWasChanged:         func() any { return &ProductPriceWasChanged{} },
		EventProductPurchaseURLWasChanged:   func() any { return &ProductPurchaseURLWasChanged{} },
		EventProductShowInMenuWasChanged:    func() any { return &ProductShowInMenuWasChanged{} },
		EventProductShowInSearchWasChanged:  func() any { return &ProductShowInSearchWasChanged{} },
		EventProductFeaturedImageWasChanged: func() any { return &ProductFeaturedImageWasChanged{} },
		EventProductStatusWasChanged:        func() any { return &ProductStatusWasChanged{} },
		EventProductPublishedWasChanged:     func() any { return &ProductPublishedWasChanged{} },
		EventProductModifiedWasChanged:      func() any { return &ProductModifiedWasChanged{} },
		EventProductMetaWasChanged:          func() any { return &ProductMetaWasChanged{} },
		EventProductWasDeleted:              func() any { return &ProductWasDeleted{} },
	}
	for eventType, factory := range factories {
		if err := r.Register(eventType, factory); err != nil {
			return err
		}
	}
	return nil
}

func parseProductID(s string) (values.ProductID, error) {
	if s == "" {
		return "", errors.NewError(errors.ErrCodeSerialization, "empty product id payload")
	}
	return values.ProductID(s), nil
}

func copyMeta(meta map[string]string) map[string]string {
	if meta == nil {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
