package model

import "time"

// Subscriber is an email address captured on the landing page waitlist.
type Subscriber struct {
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribedAt"`
}
