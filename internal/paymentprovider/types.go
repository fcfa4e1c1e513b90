package paymentprovider

// CheckoutRequest параметры сессии оформления подписки.
type CheckoutRequest struct {
	CustomerID string
	AccountID  string
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// Customer покупатель на стороне платёжного провайдера.
type Customer struct {
	ID    string
	Email string
}

// MetadataAccountID ключ метаданных, по которому вебхук находит аккаунт.
const MetadataAccountID = "user_id"
