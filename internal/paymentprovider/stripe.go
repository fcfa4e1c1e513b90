// Package paymentprovider клиент платёжного провайдера Stripe:
// покупатели, сессии оформления подписки и клиентский портал.
package paymentprovider

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// ErrEmptyURL провайдер вернул сессию без ссылки.
var ErrEmptyURL = errors.New("payment provider returned session without url")

// Client обёртка над API Stripe.
type Client struct {
	api *client.API
}

// NewClient создаёт клиент со стандартными адресами Stripe.
func NewClient(secretKey string) *Client {
	return &Client{api: client.New(secretKey, nil)}
}

// NewClientWithBackend создаёт клиент, который ходит на указанный адрес вместо api.stripe.com.
func NewClientWithBackend(secretKey string, cfg *stripe.BackendConfig) *Client {
	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
	}
	return &Client{api: client.New(secretKey, backends)}
}

// FindOrCreateCustomer ищет покупателя по email и создаёт его, если не найден.
func (c *Client) FindOrCreateCustomer(ctx context.Context, email, accountID string) (Customer, error) {
	const op = "paymentprovider.FindOrCreateCustomer"

	listParams := &stripe.CustomerListParams{Email: stripe.String(email)}
	listParams.Context = ctx
	listParams.Limit = stripe.Int64(1)
	iter := c.api.Customers.List(listParams)
	for iter.Next() {
		cus := iter.Customer()
		if cus != nil && !cus.Deleted {
			return Customer{ID: cus.ID, Email: cus.Email}, nil
		}
	}
	if err := iter.Err(); err != nil {
		return Customer{}, fmt.Errorf("%s: list: %w", op, err)
	}

	params := &stripe.CustomerParams{Email: stripe.String(email)}
	params.Context = ctx
	params.AddMetadata(MetadataAccountID, accountID)
	cus, err := c.api.Customers.New(params)
	if err != nil {
		return Customer{}, fmt.Errorf("%s: create: %w", op, err)
	}
	return Customer{ID: cus.ID, Email: cus.Email}, nil
}

// CreateCheckoutSession открывает сессию оформления подписки и возвращает ссылку на неё.
// Идентификатор аккаунта кладётся в метаданные сессии, подписки и в client_reference_id.
func (c *Client) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error) {
	const op = "paymentprovider.CreateCheckoutSession"

	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(req.CustomerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(req.AccountID),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{MetadataAccountID: req.AccountID},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx
	params.AddMetadata(MetadataAccountID, req.AccountID)

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if sess.URL == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyURL)
	}
	return sess.URL, nil
}

// CreatePortalSession открывает сессию клиентского портала для управления подпиской.
func (c *Client) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	const op = "paymentprovider.CreatePortalSession"

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	sess, err := c.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if sess.URL == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyURL)
	}
	return sess.URL, nil
}
