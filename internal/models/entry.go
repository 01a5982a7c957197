// Package models defines the password entry stored by mustardseed.
package models

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dmitrijs2005/mustardseed/internal/common"
	"github.com/go-playground/validator/v10"
)

// Entry is a single (website, username, password) record.
// The JSON field names are part of the persisted format.
type Entry struct {
	Website  string `json:"website" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Key is the logical identity of an entry: the trimmed, lower-cased
// website and username.
type Key struct {
	Website  string
	Username string
}

// NewKey builds the logical key for a website/username pair.
func NewKey(website, username string) Key {
	return Key{
		Website:  normalize(website),
		Username: normalize(username),
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Key returns the logical key of e.
func (e Entry) Key() Key {
	return NewKey(e.Website, e.Username)
}

// Trimmed returns a copy of e with surrounding whitespace removed from
// every field.
func (e Entry) Trimmed() Entry {
	return Entry{
		Website:  strings.TrimSpace(e.Website),
		Username: strings.TrimSpace(e.Username),
		Password: strings.TrimSpace(e.Password),
	}
}

// Validate checks that every field is non-empty after trimming and is valid
// UTF-8, since the persisted JSON cannot carry other bytes unchanged.
// The returned error wraps common.ErrValidation.
func (e Entry) Validate() error {
	err := getValidator().Struct(e.Trimmed())
	if err == nil {
		return e.validateUTF8()
	}

	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("%w: empty %s", common.ErrValidation, strings.Join(fields, ", "))
}

func (e Entry) validateUTF8() error {
	var fields []string
	if !utf8.ValidString(e.Website) {
		fields = append(fields, "website")
	}
	if !utf8.ValidString(e.Username) {
		fields = append(fields, "username")
	}
	if !utf8.ValidString(e.Password) {
		fields = append(fields, "password")
	}
	if len(fields) == 0 {
		return nil
	}
	return fmt.Errorf("%w: invalid UTF-8 in %s", common.ErrValidation, strings.Join(fields, ", "))
}

var (
	once     sync.Once
	validate *validator.Validate
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := fld.Tag.Get("json")
			if comma := strings.Index(name, ","); comma != -1 {
				name = name[:comma]
			}
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}
