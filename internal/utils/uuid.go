package utils

import "github.com/google/uuid"

// UUIDGenerator issues guest session identifiers. V7 keeps them
// time-ordered which helps index locality on the guest lookup column.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
