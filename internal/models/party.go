package models

import "github.com/shopspring/decimal"

// PartyType mirrors the party_type column.
type PartyType string

const (
	Customer PartyType = "CUSTOMER"
	Supplier PartyType = "SUPPLIER"
)

// Party is a row of the parties table.
type Party struct {
	PartyID        string          `db:"party_id"`
	ShopID         string          `db:"shop_id"`
	PartyType      PartyType       `db:"party_type"`
	Name           string          `db:"name"`
	NormalizedName string          `db:"normalized_name"` // unique per shop and type
	Phone          string          `db:"phone"`
	Address        string          `db:"address"`
	TotalBilled    decimal.Decimal `db:"total_billed"`
	TotalSettled   decimal.Decimal `db:"total_settled"`
	AuditFields
}
