package preppilot

import "fmt"

const walletPath = "/api/v1/wallet"

type Wallet struct {
	BalanceCredits   int            `json:"balance_credits"`
	LastTransactions []*Transaction `json:"last_transactions"`
}

type Transaction struct {
	ID        int    `json:"id"`
	Type      string `json:"type"`
	Credits   int    `json:"credits"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func (c *Client) GetWallet() (*Wallet, error) {
	var wallet Wallet
	if err := c.getJSON(fmt.Sprintf("%s%s", c.APIURL, walletPath), nil, &wallet); err != nil {
		return nil, fmt.Errorf("get wallet: %w", err)
	}

	return &wallet, nil
}
