package gateway

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type createUserBody struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (b createUserBody) validate() error {
	if strings.TrimSpace(b.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if !emailPattern.MatchString(b.Email) {
		return fmt.Errorf("email has invalid format")
	}
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("name must not be blank")
	}
	return nil
}

type updateUserBody struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
}

func (b updateUserBody) validate() error {
	if b.Email != nil && !emailPattern.MatchString(*b.Email) {
		return fmt.Errorf("email has invalid format")
	}
	if b.Name != nil && strings.TrimSpace(*b.Name) == "" {
		return fmt.Errorf("name must not be blank")
	}
	return nil
}

type createItemBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   *int64 `json:"requestId"`
}

func (b createItemBody) validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("name must not be blank")
	}
	if strings.TrimSpace(b.Description) == "" {
		return fmt.Errorf("description must not be blank")
	}
	if b.Available == nil {
		return fmt.Errorf("available is required")
	}
	return nil
}

type createBookingBody struct {
	ItemID *int64     `json:"itemId"`
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
}

func (b createBookingBody) validate(now time.Time) error {
	if b.ItemID == nil || *b.ItemID <= 0 {
		return fmt.Errorf("itemId is required")
	}
	if b.Start == nil || b.End == nil {
		return fmt.Errorf("start and end are required")
	}
	if b.Start.Before(now) {
		return fmt.Errorf("start must not be in the past")
	}
	if !b.End.After(*b.Start) {
		return fmt.Errorf("end must be after start")
	}
	return nil
}

type commentBody struct {
	Text string `json:"text"`
}

func (b commentBody) validate() error {
	if strings.TrimSpace(b.Text) == "" {
		return fmt.Errorf("text must not be blank")
	}
	return nil
}

type requestBody struct {
	Description string `json:"description"`
}

func (b requestBody) validate() error {
	if strings.TrimSpace(b.Description) == "" {
		return fmt.Errorf("description must not be blank")
	}
	return nil
}
