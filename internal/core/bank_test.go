package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBankContextExtractor_SenderIdentifiesBank(t *testing.T) {
	e := NewBankContextExtractor()

	ctx := e.Extract("Your monthly statement is attached.", "statements@emiratesnbd.com")
	assert.Equal(t, BankID("enbd"), ctx.Bank)
}

func TestBankContextExtractor_BodyIdentifiesBank(t *testing.T) {
	e := NewBankContextExtractor()

	ctx := e.Extract("Thank you for banking with Mashreq.", "no-reply@notifications.example")
	assert.Equal(t, BankID("mashreq"), ctx.Bank)
}

func TestBankContextExtractor_UnknownByDefault(t *testing.T) {
	e := NewBankContextExtractor()

	ctx := e.Extract("Hello, your parcel has shipped.", "orders@shop.example")
	assert.Equal(t, BankUnknown, ctx.Bank)
}

func TestBankContextExtractor_TableOrderBreaksTies(t *testing.T) {
	e := NewBankContextExtractor()

	// Both ADCB and HSBC appear; the earlier table entry wins
	ctx := e.Extract("Forwarded from ADCB, originally sent by HSBC.", "someone@example.com")
	assert.Equal(t, BankID("adcb"), ctx.Bank)
}

func TestBankContextExtractor_Fragments(t *testing.T) {
	e := NewBankContextExtractor()

	body := "Your card ending 4821 and account number 123456 were billed on 15/03/2024."
	ctx := e.Extract(body, "alerts@hsbc.ae")

	assert.Equal(t, BankID("hsbc"), ctx.Bank)
	assert.Contains(t, ctx.AccountFragments, "123456")
	assert.Contains(t, ctx.CardFragments, "4821")
	assert.Contains(t, ctx.Dates, "15/03/2024")
}

func TestBankContextExtractor_Pure(t *testing.T) {
	e := NewBankContextExtractor()
	body := "Card ending 9876, account 5555, statement dated 01-02-2023."
	sender := "service@rakbank.ae"

	first := e.Extract(body, sender)
	second := e.Extract(body, sender)
	assert.Equal(t, first, second)

	third := NewBankContextExtractor().Extract(body, sender)
	assert.Equal(t, first, third)
}
