// internal/domain/policy.go
package domain

import (
	"fmt"
	"slices"
	"strings"

	"walpay-wallet/internal/util"
)

// Policy holds the per-transaction limits and the wallet cap, all in paisa.
type Policy struct {
	DepositMin     int64    `envconfig:"DEPOSIT_MIN" default:"50000"`
	DepositMax     int64    `envconfig:"DEPOSIT_MAX" default:"10000000"`
	WalletCap      int64    `envconfig:"WALLET_CAP" default:"100000000"`
	WithdrawalMin  int64    `envconfig:"WITHDRAWAL_MIN" default:"10000"`
	P2PMin         int64    `envconfig:"P2P_MIN" default:"1000"`
	P2PMax         int64    `envconfig:"P2P_MAX" default:"1000000"`
	SupportedBanks []string `envconfig:"SUPPORTED_BANKS" default:"HDFC,AXIS,SBI,ICICI"`
}

// DefaultPolicy mirrors the envconfig defaults above.
func DefaultPolicy() Policy {
	return Policy{
		DepositMin:     50000,
		DepositMax:     10000000,
		WalletCap:      100000000,
		WithdrawalMin:  10000,
		P2PMin:         1000,
		P2PMax:         1000000,
		SupportedBanks: []string{"HDFC", "AXIS", "SBI", "ICICI"},
	}
}

// Validate checks that the limits are internally consistent.
func (p Policy) Validate() error {
	switch {
	case p.DepositMin <= 0 || p.WithdrawalMin <= 0 || p.P2PMin <= 0:
		return fmt.Errorf("%w: policy minimums must be positive", util.ErrValidation)
	case p.DepositMax < p.DepositMin:
		return fmt.Errorf("%w: deposit max %d is below deposit min %d", util.ErrValidation, p.DepositMax, p.DepositMin)
	case p.P2PMax < p.P2PMin:
		return fmt.Errorf("%w: p2p max %d is below p2p min %d", util.ErrValidation, p.P2PMax, p.P2PMin)
	case p.WalletCap < p.DepositMax:
		return fmt.Errorf("%w: wallet cap %d is below deposit max %d", util.ErrValidation, p.WalletCap, p.DepositMax)
	case len(p.SupportedBanks) == 0:
		return fmt.Errorf("%w: at least one bank must be supported", util.ErrValidation)
	}
	return nil
}

// IsSupportedBank reports whether code names a configured bank.
func (p Policy) IsSupportedBank(code string) bool {
	return slices.Contains(p.SupportedBanks, NormalizeBank(code))
}

var bankRedirectURLs = map[string]string{
	"HDFC":  "https://netbanking.hdfcbank.com",
	"AXIS":  "https://www.axisbank.com/",
	"SBI":   "https://retail.onlinesbi.sbi/retail//login.htm",
	"ICICI": "https://infinity.icicibank.com/corp/Login.jsp",
}

// BankRedirectURL returns where the user is sent to authorize a deposit. The
// ledger never contacts it.
func BankRedirectURL(code string) string {
	return bankRedirectURLs[NormalizeBank(code)]
}

// NormalizeBank returns the canonical (upper-case) bank code.
func NormalizeBank(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
