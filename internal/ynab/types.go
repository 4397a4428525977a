// Package ynab is a read-only client for the YNAB budgeting API.
package ynab

// Amounts are in milliunits: 1000 = one unit of the budget currency.

// Account is a budget account.
type Account struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	OnBudget         bool   `json:"on_budget"`
	Closed           bool   `json:"closed"`
	Note             string `json:"note,omitempty"`
	Balance          int64  `json:"balance"`
	ClearedBalance   int64  `json:"cleared_balance"`
	UnclearedBalance int64  `json:"uncleared_balance"`
	Deleted          bool   `json:"deleted"`
}

// CurrencyFormat describes how amounts are displayed.
type CurrencyFormat struct {
	ISOCode          string `json:"iso_code"`
	DecimalDigits    int    `json:"decimal_digits"`
	DecimalSeparator string `json:"decimal_separator"`
	SymbolFirst      bool   `json:"symbol_first"`
	GroupSeparator   string `json:"group_separator"`
	CurrencySymbol   string `json:"currency_symbol"`
	DisplaySymbol    bool   `json:"display_symbol"`
}

// BudgetSummary is one entry of the budget list.
type BudgetSummary struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	LastModifiedOn string          `json:"last_modified_on,omitempty"`
	FirstMonth     string          `json:"first_month,omitempty"`
	LastMonth      string          `json:"last_month,omitempty"`
	CurrencyFormat *CurrencyFormat `json:"currency_format,omitempty"`
	Accounts       []Account       `json:"accounts,omitempty"`
}

// BudgetList is the data of GET /budgets.
type BudgetList struct {
	Budgets       []BudgetSummary `json:"budgets"`
	DefaultBudget *BudgetSummary  `json:"default_budget"`
}

// Category is a budget category with its month figures.
type Category struct {
	ID                string `json:"id"`
	CategoryGroupID   string `json:"category_group_id"`
	CategoryGroupName string `json:"category_group_name,omitempty"`
	Name              string `json:"name"`
	Hidden            bool   `json:"hidden"`
	Note              string `json:"note,omitempty"`
	Budgeted          int64  `json:"budgeted"`
	Activity          int64  `json:"activity"`
	Balance           int64  `json:"balance"`
	GoalType          string `json:"goal_type,omitempty"`
	Deleted           bool   `json:"deleted"`
}

// MonthDetail is a budget month with its categories.
type MonthDetail struct {
	Month        string     `json:"month"`
	Note         string     `json:"note,omitempty"`
	Income       int64      `json:"income"`
	Budgeted     int64      `json:"budgeted"`
	Activity     int64      `json:"activity"`
	ToBeBudgeted int64      `json:"to_be_budgeted"`
	AgeOfMoney   *int       `json:"age_of_money"`
	Deleted      bool       `json:"deleted"`
	Categories   []Category `json:"categories"`
}

// SubTransaction is one split of a transaction.
type SubTransaction struct {
	ID           string `json:"id"`
	Amount       int64  `json:"amount"`
	Memo         string `json:"memo,omitempty"`
	PayeeName    string `json:"payee_name,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	Deleted      bool   `json:"deleted"`
}

// Transaction is a transaction with resolved names.
type Transaction struct {
	ID                string           `json:"id"`
	Date              string           `json:"date"`
	Amount            int64            `json:"amount"`
	Memo              string           `json:"memo,omitempty"`
	Cleared           string           `json:"cleared"`
	Approved          bool             `json:"approved"`
	FlagColor         string           `json:"flag_color,omitempty"`
	AccountID         string           `json:"account_id"`
	AccountName       string           `json:"account_name"`
	PayeeID           string           `json:"payee_id,omitempty"`
	PayeeName         string           `json:"payee_name,omitempty"`
	CategoryID        string           `json:"category_id,omitempty"`
	CategoryName      string           `json:"category_name,omitempty"`
	TransferAccountID string           `json:"transfer_account_id,omitempty"`
	Deleted           bool             `json:"deleted"`
	Subtransactions   []SubTransaction `json:"subtransactions,omitempty"`
}

// TransactionList is the data of the month transactions endpoint.
type TransactionList struct {
	Transactions    []Transaction `json:"transactions"`
	ServerKnowledge int64         `json:"server_knowledge"`
}

// Transaction type filters.
const (
	TypeUncategorized = "uncategorized"
	TypeUnapproved    = "unapproved"
)

// TransactionQuery filters month transactions. Zero fields are omitted.
type TransactionQuery struct {
	SinceDate string // YYYY-MM-DD
	Type      string // TypeUncategorized or TypeUnapproved
}
