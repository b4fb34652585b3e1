package models

type BalanceResponse struct {
	Balance string `json:"balance"`
}

type TransactionView struct {
	ID                 string `json:"id"`
	CounterpartyMobile string `json:"counterparty_mobile"`
	Amount             string `json:"amount"`
	Kind               string `json:"type"`
	Status             string `json:"status"`
	CreatedAt          string `json:"created_at"`
}

type StatementResponse struct {
	Transactions []TransactionView `json:"transactions"`
}
