package pocketbase

// ProductRecord is the wire shape of a product in the store. Every field the
// scraper writes is explicit here; response-only fields (Image, Images) are
// used to verify uploads.
type ProductRecord struct {
	ID             string   `json:"id,omitempty"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Price          float64  `json:"price"`
	URL            string   `json:"url,omitempty"`
	Code           string   `json:"code,omitempty"`
	Model          string   `json:"model,omitempty"`
	Shop           string   `json:"shop,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
	Specifications string   `json:"specifications,omitempty"`
	Description    string   `json:"description,omitempty"`
	Stock          int      `json:"stock"`
	StockText      string   `json:"stock_text,omitempty"`
	Category       string   `json:"category"`
	Source         string   `json:"source"`
	ProductType    string   `json:"productType,omitempty"`
	Created        string   `json:"created,omitempty"`
	Updated        string   `json:"updated,omitempty"`
	Image          string   `json:"image,omitempty"`
	Images         []string `json:"images,omitempty"`
}

// CategoryRecord is the wire shape of a localized category.
type CategoryRecord struct {
	ID            string `json:"id,omitempty"`
	NameLT        string `json:"name_lt"`
	NameEN        string `json:"name_en"`
	Slug          string `json:"slug"`
	DescriptionLT string `json:"description_lt,omitempty"`
	DescriptionEN string `json:"description_en,omitempty"`
	Created       string `json:"created,omitempty"`
	Updated       string `json:"updated,omitempty"`
}

// recordList is the envelope of a filtered list call.
type recordList[T any] struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalItems int `json:"totalItems"`
	Items      []T `json:"items"`
}

type authResponse struct {
	Token string `json:"token"`
}
