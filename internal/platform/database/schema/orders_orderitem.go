package schema

// OrdersOrderItemTable represents the 'orders.orderitem' table
type OrdersOrderItemTable struct {
	Table     string
	ID        string
	OrderID   string
	FoodID    string
	FoodName  string
	UnitPrice string
	Quantity  string
	CreatedAt string
}

// OrdersOrderItem is the schema definition for orders.orderitem
//
// FoodName and UnitPrice are denormalized snapshots taken at checkout time,
// so later menu edits never rewrite order history.
var OrdersOrderItem = OrdersOrderItemTable{
	Table:     "orders.orderitem",
	ID:        "id",
	OrderID:   "orderid",
	FoodID:    "foodid",
	FoodName:  "foodname",
	UnitPrice: "unitprice",
	Quantity:  "quantity",
	CreatedAt: "createdat",
}
