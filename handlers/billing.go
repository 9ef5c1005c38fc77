package handlers

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi"
	stripe "github.com/stripe/stripe-go"
	"github.com/stripe/stripe-go/card"
	checkoutsession "github.com/stripe/stripe-go/checkout/session"
	"github.com/stripe/stripe-go/customer"
	"github.com/stripe/stripe-go/sub"
	"github.com/stripe/stripe-go/webhook"

	"github.com/amanecerai/server/auth"
	"github.com/amanecerai/server/models"
)

// CreateCheckoutSession starts a hosted checkout for a subscription price
// and returns its session id. The user id rides along as the client
// reference so the webhook can flip the premium flag.
func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	token := auth.ForContext(r.Context())
	if token == nil {
		accessDenied(w)
		return
	}

	stripe.Key = os.Getenv("STRIPE_KEY")

	var body struct {
		PriceID   string `json:"priceId"`
		ReturnURL string `json:"returnUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PriceID == "" {
		respondError(w, http.StatusBadRequest, "priceId is required")
		return
	}
	if body.ReturnURL == "" {
		body.ReturnURL = os.Getenv("APP_URL")
	}

	params := &stripe.CheckoutSessionParams{
		ClientReferenceID:  stripe.String(token.Subject),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Items: []*stripe.CheckoutSessionSubscriptionDataItemsParams{
				{
					Plan:     stripe.String(body.PriceID),
					Quantity: stripe.Int64(1),
				},
			},
		},
		SuccessURL: stripe.String(body.ReturnURL + "/?payment=success"),
		CancelURL:  stripe.String(body.ReturnURL + "/?payment=cancelled"),
	}
	if email := auth.Email(token); email != "" {
		params.CustomerEmail = stripe.String(email)
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		log.Printf("handlers: checkout creation failed: %v", err)
		respondError(w, http.StatusBadGateway, "checkout creation failed")
		return
	}

	// The client redirects to hosted checkout with this session id.
	respondJSON(w, http.StatusOK, map[string]string{"sessionId": s.ID})
}

// CreateSubscription attaches a card token and opens the subscription
// directly, for clients that collect the card themselves.
func (h *Handler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	token := auth.ForContext(r.Context())
	if token == nil {
		accessDenied(w)
		return
	}

	stripe.Key = os.Getenv("STRIPE_KEY")

	var body struct {
		StripeID string `json:"stripeId"`
		TokenID  string `json:"tokenId"`
		PlanID   string `json:"planId"`
		Trial    bool   `json:"trial"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PlanID == "" || body.TokenID == "" {
		respondError(w, http.StatusBadRequest, "invalid subscription request")
		return
	}

	if body.StripeID == "" {
		cus, err := customer.New(&stripe.CustomerParams{
			Email: stripe.String(auth.Email(token)),
			Name:  stripe.String(auth.Name(token)),
		})
		if err != nil {
			respondError(w, http.StatusBadGateway, "customer creation failed")
			return
		}
		body.StripeID = cus.ID
	}

	if _, err := card.New(&stripe.CardParams{
		Customer: stripe.String(body.StripeID),
		Token:    stripe.String(body.TokenID),
	}); err != nil {
		respondError(w, http.StatusBadGateway, "card attachment failed")
		return
	}

	subscription, err := sub.New(&stripe.SubscriptionParams{
		Customer: stripe.String(body.StripeID),
		Items: []*stripe.SubscriptionItemsParams{
			{
				Plan: stripe.String(body.PlanID),
			},
		},
		TrialFromPlan: stripe.Bool(body.Trial),
	})
	if err != nil {
		respondError(w, http.StatusBadGateway, "subscription creation failed")
		return
	}

	opened := &models.StripeSubscription{
		ID:               subscription.ID,
		CurrentPeriodEnd: subscription.CurrentPeriodEnd,
		TrialEnd:         subscription.TrialEnd,
		CancelAt:         subscription.CancelAt,
		Status:           subscription.Status,
		Plan:             subscription.Plan,
	}

	// Premium follows what the subscription reports, so a trialing sub
	// counts through its period end and a dead one grants nothing.
	if _, err := h.profiles.UpdatePremium(r.Context(), token.Subject, opened.Active(time.Now())); err != nil {
		log.Printf("handlers: premium flag update failed for %s: %v", token.Subject, err)
	}

	respondJSON(w, http.StatusOK, opened)
}

func (h *Handler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	token := auth.ForContext(r.Context())
	if token == nil {
		accessDenied(w)
		return
	}

	stripe.Key = os.Getenv("STRIPE_KEY")

	id := chi.URLParam(r, "id")
	if _, err := sub.Cancel(id, nil); err != nil {
		respondError(w, http.StatusBadGateway, "cancellation failed")
		return
	}

	if _, err := h.profiles.UpdatePremium(r.Context(), token.Subject, false); err != nil {
		log.Printf("handlers: premium flag update failed for %s: %v", token.Subject, err)
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StripeWebhook handles checkout.session.completed and flips the premium
// flag for the referenced user. Mounted outside the auth middleware; the
// signature check is the authentication.
func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := ioutil.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "unreadable payload")
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), os.Getenv("STRIPE_WEBHOOK_SECRET"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "signature verification failed")
		return
	}

	if event.Type == "checkout.session.completed" {
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			respondError(w, http.StatusBadRequest, "malformed session object")
			return
		}
		if cs.ClientReferenceID != "" {
			if _, err := h.profiles.UpdatePremium(r.Context(), cs.ClientReferenceID, true); err != nil {
				log.Printf("handlers: premium upgrade from webhook failed for %s: %v", cs.ClientReferenceID, err)
				respondError(w, http.StatusInternalServerError, "premium update failed")
				return
			}
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{"received": "true"})
}
