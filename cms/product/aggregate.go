package product

import (
	"presskit/cms/values"
	"presskit/domain"
	"presskit/errors"
	"presskit/eventing"
	"presskit/validation"
)

// CreateParams 创建产品所需的领域值
type CreateParams struct {
	Title         string
	Slug          string
	Body          string
	Author        values.UserID
	Sku           string
	Price         values.Money
	PurchaseURL   string
	ShowInMenu    values.IntFlag
	ShowInSearch  values.IntFlag
	FeaturedImage string
	Status        string
	Created       values.DateTime
	Published     values.DateTime
	Modified      values.DateTime
	Meta          map[string]string
}

// Product 产品聚合
type Product struct {
	*domain.EventSourcedAggregate[values.ProductID]

	title         string
	slug          string
	body          string
	author        values.UserID
	sku           string
	price         values.Money
	purchaseURL   string
	showInMenu    values.IntFlag
	showInSearch  values.IntFlag
	featuredImage string
	status        string
	created       values.DateTime
	published     values.DateTime
	modified      values.DateTime
	meta          map[string]string
	deleted       bool
}

// NewProduct 创建空聚合（用于从事件历史重放）
func NewProduct(id values.ProductID) *Product {
	return &Product{
		EventSourcedAggregate: domain.NewEventSourcedAggregate(id, eventing.AggregateProduct),
	}
}

// Create 创建产品聚合并记录创建事件
func Create(id values.ProductID, p CreateParams) (*Product, error) {
	if id.IsZero() {
		return nil, errors.NewValidationError("product id cannot be empty")
	}
	if err := validateCreateParams(&p); err != nil {
		return nil, err
	}

	product := NewProduct(id)
	if err := product.record(NewProductWasCreated(id, p)); err != nil {
		return nil, err
	}
	return product, nil
}

func validateCreateParams(p *CreateParams) error {
	if err := validation.ValidateRequired(p.Title, "title"); err != nil {
		return err
	}
	if err := validation.ValidateSlug(p.Slug, "slug"); err != nil {
		return err
	}
	if p.Author.IsZero() {
		return errors.NewValidationError("author cannot be empty")
	}
	if err := validation.ValidateRequired(p.Sku, "sku"); err != nil {
		return err
	}
	if p.Price.IsZero() {
		return errors.NewValidationError("price cannot be empty")
	}
	if err := validation.ValidateRequired(p.Status, "status"); err != nil {
		return err
	}

	if p.Created.IsZero() {
		p.Created = values.Now()
	}
	if p.Published.IsZero() {
		p.Published = p.Created
	}
	if p.Modified.IsZero() {
		p.Modified = p.Created
	}
	return nil
}

func (p *Product) Title() string                { return p.title }
func (p *Product) Slug() string                 { return p.slug }
func (p *Product) Body() string                 { return p.body }
func (p *Product) Author() values.UserID        { return p.author }
func (p *Product) Sku() string                  { return p.sku }
func (p *Product) Price() values.Money          { return p.price }
func (p *Product) PurchaseURL() string          { return p.purchaseURL }
func (p *Product) ShowInMenu() values.IntFlag   { return p.showInMenu }
func (p *Product) ShowInSearch() values.IntFlag { return p.showInSearch }
func (p *Product) FeaturedImage() string        { return p.featuredImage }
func (p *Product) Status() string               { return p.status }
func (p *Product) Created() values.DateTime     { return p.created }
func (p *Product) Published() values.DateTime   { return p.published }
func (p *Product) Modified() values.DateTime    { return p.modified }
func (p *Product) IsDeleted() bool              { return p.deleted }

// Meta 元数据副本
func (p *Product) Meta() map[string]string { return copyMeta(p.meta) }

// ChangeTitle 变更标题；值未变化时静默返回
func (p *Product) ChangeTitle(title string) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}
	if err := validation.ValidateRequired(title, "title"); err != nil {
		return err
	}
	if p.title == title {
		return nil
	}
	return p.record(NewProductTitleWasChanged(p.GetID(), title))
}

// ChangeSlug 变更别名
func (p *Product) ChangeSlug(slug string) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}
	if err := validation.ValidateSlug(slug, "slug"); err != nil {
		return err
	}
	if p.slug == slug {
		return nil
	}
	return p.record(NewProductSlugWasChanged(p.GetID(), slug))
}

// ChangeBody 变更正文（可选字段，空值合法）
func (p *Product) ChangeBody(body string) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}
	if p.body == body {
		return nil
	}
	return p.record(NewProductBodyWasChanged(p.GetID(), body))
}

// ChangeAuthor 变更作者
func (p *Product) ChangeAuthor(author values.UserID) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}
	if author.IsZero() {
		return errors.NewValidationError("author cannot be empty")
	}
	if p.author == author {
		return nil
	}
	return p.record(NewProductAuthorWasChanged(p.GetID(), author))
}

// ChangeSku 变更 SKU
func (p *Product) ChangeSku(sku string) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}
	if err := validation.ValidateRequired(sku, "sku"); err != nil {
		return err
	}
	if p.sku == sku {
		return nil
	}
	return p.record(NewProductSkuWasChanged(p.GetID(), sku))
}

// ChangePrice 变更价格（金额与货币按值比较）
func (p *Product) ChangePrice(price values.Money) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}
	if price.IsZero() {
		return errors.NewValidationError("price cannot be empty")
	}
	if p.price.Equal(price) {
		return nil
	}
	return p.record(NewProductPriceWasChanged(p.GetID(), price))
}

// ChangePurchaseURL 变更购买链接（可选字段，空值合法）
func (p *Product) ChangePurchaseURL(url string) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}
	if p.purchaseURL == url {
		return nil
	}
	return p.record(NewProductPurchaseURLWasChanged(p.GetID(), url))
}

// ChangeShowInMenu 变更菜单可见标记
func (p *Product) ChangeShowInMenu(flag values.IntFlag) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}
	if p.showInMenu == flag {
		return nil
	}
	return p.record(NewProductShowInMenuWasChanged(p.GetID(), flag))
}

// ChangeShowInSearch 变更搜索可见标记
func (p *Product) ChangeShowInSearch(flag values.IntFlag) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}
	if p.showInSearch == flag {
		return nil
	}
	return p.record(NewProductShowInSearchWasChanged(p.GetID(), flag))
}

// ChangeFeaturedImage 变更特色图片（可选字段，空值合法）
func (p *Product) ChangeFeaturedImage(image string) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}
	if p.featuredImage == image {
		return nil
	}
	return p.record(NewProductFeaturedImageWasChanged(p.GetID(), image))
}

// ChangeStatus 变更状态
func (p *Product) ChangeStatus(status string) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}
	if err := validation.ValidateRequired(status, "status"); err != nil {
		return err
	}
	if p.status == status {
		return nil
	}
	return p.record(NewProductStatusWasChanged(p.GetID(), status))
}

// ChangePublished 变更发布时间（秒级比较）
func (p *Product) ChangePublished(published values.DateTime) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}
	if published.IsZero() {
		return errors.NewValidationError("published cannot be empty")
	}
	if p.published.Equal(published) {
		return nil
	}
	return p.record(NewProductPublishedWasChanged(p.GetID(), published))
}

// ChangeModified 变更修改时间（秒级比较）
func (p *Product) ChangeModified(modified values.DateTime) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}
	if modified.IsZero() {
		return errors.NewValidationError("modified cannot be empty")
	}
	if p.modified.Equal(modified) {
		return nil
	}
	return p.record(NewProductModifiedWasChanged(p.GetID(), modified))
}

// ChangeMeta 变更元数据（整个 map 作为一个单元比较）
func (p *Product) ChangeMeta(meta map[string]string) error {
	if err := p.ensureMutable(); err != nil {
		return err
	}
	if metaEqual(p.meta, meta) {
		return nil
	}
	return p.record(NewProductMetaWasChanged(p.GetID(), meta))
}

// Delete 删除产品；传入的 id 必须与聚合自身一致
func (p *Product) Delete(id values.ProductID) error {
	if id != p.GetID() {
		return errors.NewValidationError("product id mismatch on delete")
	}
	if p.GetVersion() == 0 {
		return errors.NewValidationError("product does not exist")
	}
	if p.deleted {
		return nil
	}
	return p.record(NewProductWasDeleted(p.GetID()))
}

func (p *Product) ensureMutable() error {
	if p.GetVersion() == 0 {
		return errors.NewValidationError("product does not exist")
	}
	if p.deleted {
		return errors.NewValidationError("product has been deleted")
	}
	return nil
}

func (p *Product) record(e domain.IDomainEvent) error {
	evt := eventing.NewEvent(p.GetID().String(), p.GetAggregateType(), e.EventType(), p.NextVersion(), e)
	return p.ApplyAndRecord(p.ApplyEvent, evt)
}

// ApplyEvent 将事件负载应用到聚合状态
func (p *Product) ApplyEvent(evt eventing.IEvent) error {
	switch e := evt.GetPayload().(type) {
	case *ProductWasCreated:
		if err := p.applyCreated(e); err != nil {
			return err
		}
	case *ProductTitleWasChanged:
		p.title = e.Title
	case *ProductSlugWasChanged:
		p.slug = e.Slug
	case *ProductBodyWasChanged:
		p.body = e.Body
	case *ProductAuthorWasChanged:
		p.author = values.UserID(e.Author)
	case *ProductSkuWasChanged:
		p.sku = e.Sku
	case *ProductPriceWasChanged:
		price, err := e.PriceMoney()
		if err != nil {
			return err
		}
		p.price = price
	case *ProductPurchaseURLWasChanged:
		p.purchaseURL = e.PurchaseURL
	case *ProductShowInMenuWasChanged:
		p.showInMenu = values.IntFlag(e.ShowInMenu)
	case *ProductShowInSearchWasChanged:
		p.showInSearch = values.IntFlag(e.ShowInSearch)
	case *ProductFeaturedImageWasChanged:
		p.featuredImage = e.FeaturedImage
	case *ProductStatusWasChanged:
		p.status = e.Status
	case *ProductPublishedWasChanged:
		published, err := e.PublishedAt()
		if err != nil {
			return err
		}
		p.published = published
	case *ProductModifiedWasChanged:
		modified, err := e.ModifiedAt()
		if err != nil {
			return err
		}
		p.modified = modified
	case *ProductMetaWasChanged:
		p.meta = copyMeta(e.Meta)
	case *ProductWasDeleted:
		p.deleted = true
	}
	return p.EventSourcedAggregate.ApplyEvent(evt)
}

func (p *Product) applyCreated(e *ProductWasCreated) error {
	created, err := e.CreatedAt()
	if err != nil {
		return err
	}
	published, err := e.PublishedAt()
	if err != nil {
		return err
	}
	modified, err := e.ModifiedAt()
	if err != nil {
		return err
	}
	price, err := e.PriceMoney()
	if err != nil {
		return err
	}

	p.title = e.Title
	p.slug = e.Slug
	p.body = e.Body
	p.author = values.UserID(e.Author)
	p.sku = e.Sku
	p.price = price
	p.purchaseURL = e.PurchaseURL
	p.showInMenu = values.IntFlag(e.ShowInMenu)
	p.showInSearch = values.IntFlag(e.ShowInSearch)
	p.featuredImage = e.FeaturedImage
	p.status = e.Status
	p.created = created
	p.published = published
	p.modified = modified
	p.meta = copyMeta(e.Meta)
	p.deleted = false
	return nil
}

func metaEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
