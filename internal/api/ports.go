package api

import (
	"context"

	"pantry/internal/core"
)

// Ports for the backend collaborator. Adapters implement these; the
// state layer depends on nothing else.
type (
	ProductLister interface {
		ListProducts(ctx context.Context) ([]core.Product, error)
	}

	ProductCreator interface {
		CreateProduct(ctx context.Context, draft core.ProductDraft) (core.Product, error)
	}

	ProductUpdater interface {
		// UpdateProduct sends a partial update for the editable fields.
		UpdateProduct(ctx context.Context, id int64, patch core.ProductPatch) error
	}

	ProductDeleter interface {
		DeleteProduct(ctx context.Context, id int64) error
	}

	UsageApplier interface {
		// ApplyUsage reports a quantity decrement and returns the
		// server-computed new quantity.
		ApplyUsage(ctx context.Context, id int64, amount float64) (newQuantity float64, err error)
	}

	ReceiptLister interface {
		ListReceipts(ctx context.Context) ([]core.Receipt, error)
	}

	ReceiptDetailReader interface {
		ReceiptDetail(ctx context.Context, id int64) (core.ReceiptDetail, error)
	}

	ConfigStore interface {
		ReadConfig(ctx context.Context) (ConfigSnapshot, error)
		WriteConfig(ctx context.Context, snap ConfigSnapshot) error
	}

	PreferenceStore interface {
		ReadPreferences(ctx context.Context) (Preferences, error)
		WritePreferences(ctx context.Context, prefs Preferences) error
	}

	Suggester interface {
		Suggest(ctx context.Context, kind SuggestionKind) (Suggestion, error)
	}
)

// InventoryBackend covers the collaborator surface the inventory cache needs.
type InventoryBackend interface {
	ProductLister
	ProductCreator
	ProductUpdater
	ProductDeleter
	UsageApplier
}

// ReceiptBackend covers the receipt cache surface.
type ReceiptBackend interface {
	ReceiptLister
	ReceiptDetailReader
}

// Backend is the unified collaborator interface.
type Backend interface {
	InventoryBackend
	ReceiptBackend
	ConfigStore
	PreferenceStore
	Suggester
}

// ConfigSnapshot mirrors the collaborator's configuration endpoint.
type ConfigSnapshot struct {
	DatabaseHost     string `json:"database_host"`
	DatabasePort     string `json:"database_port"`
	DatabaseName     string `json:"database_name"`
	DatabaseUser     string `json:"database_user"`
	DatabasePassword string `json:"database_password,omitempty"`
	ModelHost        string `json:"ollama_host"`
	ModelName        string `json:"ollama_model"`
}

// Preferences holds the household's dietary preferences.
type Preferences struct {
	DietType         string `json:"diet_type"`
	Allergen         string `json:"allergen"`
	DislikedProducts string `json:"disliked_products"`
	LikedProducts    string `json:"liked_products"`
}

// SuggestionKind selects the suggestion endpoint.
type SuggestionKind string

const (
	SuggestMeal         SuggestionKind = "suggest-meal"
	SuggestWeeklyMenu   SuggestionKind = "suggest-weekly-menu"
	SuggestShoppingList SuggestionKind = "suggest-shopping-list"
)

// IsValid returns true if the suggestion kind is known.
func (k SuggestionKind) IsValid() bool {
	switch k {
	case SuggestMeal, SuggestWeeklyMenu, SuggestShoppingList:
		return true
	default:
		return false
	}
}

// Suggestion is the raw collaborator answer; formatting is the text
// formatter collaborator's job.
type Suggestion struct {
	Text   string
	IsJSON bool
}
