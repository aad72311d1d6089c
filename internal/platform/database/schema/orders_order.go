package schema

// OrdersOrderTable represents the 'orders.order' table
type OrdersOrderTable struct {
	Table       string
	ID          string
	UserID      string
	StallID     string
	Status      string
	TotalAmount string
	TotalItems  string
	Note        string
	Address     string
	Phone       string
	CreatedAt   string
	UpdatedAt   string
}

// OrdersOrder is the schema definition for orders.order
var OrdersOrder = OrdersOrderTable{
	Table:       "orders.order",
	ID:          "id",
	UserID:      "userid",
	StallID:     "stallid",
	Status:      "status",
	TotalAmount: "totalamount",
	TotalItems:  "totalitems",
	Note:        "note",
	Address:     "address",
	Phone:       "phone",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t OrdersOrderTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.StallID, t.Status, t.TotalAmount, t.TotalItems,
		t.Note, t.Address, t.Phone, t.CreatedAt, t.UpdatedAt,
	}
}
