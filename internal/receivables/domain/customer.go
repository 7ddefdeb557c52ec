package receivables

// Customer is one entry of the customer filter list.
type Customer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
