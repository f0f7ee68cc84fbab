package token_management

import (
	"fmt"
	"io"
	"os"

	"github.com/morler/repolens/constants/lipgloss"
	"github.com/morler/repolens/token_management/contracts"
)

// TokenManager implementation
type tokenManager struct {
	usedToken       int
	usedInputToken  int
	usedOutputToken int
	out             io.Writer
}

// NewTokenManager creates a new token manager writing its summary to stdout.
func NewTokenManager() contracts.ITokenManagement {
	return newTokenManager(os.Stdout)
}

func newTokenManager(out io.Writer) *tokenManager {
	return &tokenManager{out: out}
}

// UsedTokens accumulates the token count reported by the provider.
func (tm *tokenManager) UsedTokens(inputToken int, outputToken int) {
	tm.usedInputToken += inputToken
	tm.usedOutputToken += outputToken
	tm.usedToken += inputToken + outputToken
}

func (tm *tokenManager) GetCurrentTokenUsage() (total int, input int, output int) {
	return tm.usedToken, tm.usedInputToken, tm.usedOutputToken
}

func (tm *tokenManager) DisplayTokens(providerName string, model string) {
	tokenInfo := fmt.Sprintf("Token Used: %d (Input: %d, Output: %d) - Provider: %s - Model: %s",
		tm.usedToken, tm.usedInputToken, tm.usedOutputToken, providerName, model)

	fmt.Fprintln(tm.out, lipgloss.BoxStyle.Render(tokenInfo))
}
