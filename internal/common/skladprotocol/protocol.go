// Package skladprotocol holds wire types of the MoySklad remap 1.2 API.
// Monetary values arrive in minor currency units (1/100 of a unit).
package skladprotocol

const (
	ProductType = "product"
	BundleType  = "bundle"
	VariantType = "variant"
)

const (
	// MomentLayout is the timestamp format of order "moment" fields.
	MomentLayout = "2006-01-02 15:04:05.000"
	// MomentFilterLayout is the format accepted by moment filters.
	MomentFilterLayout = "2006-01-02 15:04:05"
)

type Meta struct {
	Href string `json:"href"`
	Type string `json:"type"`
}

type Entity struct {
	Meta Meta   `json:"meta"`
	Name string `json:"name"`
}

type PageMeta struct {
	Size   int `json:"size"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type OrdersPage struct {
	Meta PageMeta `json:"meta"`
	Rows []Order  `json:"rows"`
}

type Order struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Moment          string      `json:"moment"`
	Agent           *Entity     `json:"agent,omitempty"`
	Organization    *Entity     `json:"organization,omitempty"`
	State           *Entity     `json:"state,omitempty"`
	Applicable      bool        `json:"applicable"`
	Sum             int64       `json:"sum"`
	PayedSum        int64       `json:"payedSum"`
	ShippedSum      int64       `json:"shippedSum"`
	ReservedSum     int64       `json:"reservedSum"`
	VatSum          int64       `json:"vatSum"`
	VatIncluded     bool        `json:"vatIncluded"`
	ShipmentAddress string      `json:"shipmentAddress,omitempty"`
	Attributes      []Attribute `json:"attributes,omitempty"`
	Positions       Positions   `json:"positions"`
}

// Attribute values are free-form: the API serves strings, numbers, booleans
// or null depending on how the custom field is declared.
type Attribute struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

type Positions struct {
	Rows []Position `json:"rows"`
}

type Position struct {
	Quantity   float64    `json:"quantity"`
	Price      int64      `json:"price"`
	Discount   float64    `json:"discount"`
	Vat        float64    `json:"vat"`
	Assortment Assortment `json:"assortment"`
}

type Assortment struct {
	Meta     Meta    `json:"meta"`
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Article  string  `json:"article,omitempty"`
	Code     string  `json:"code,omitempty"`
	BuyPrice *Price  `json:"buyPrice,omitempty"`
	Product  *Entity `json:"product,omitempty"`
}

type Price struct {
	Value int64 `json:"value"`
}

type ProductsPage struct {
	Meta PageMeta     `json:"meta"`
	Rows []Assortment `json:"rows"`
}
