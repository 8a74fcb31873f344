package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
)

var errNegativePrice = errors.New("price must not be negative")

// Price is a non-negative amount with two decimal places, e.g. "12.50".
// Requests may send it as a JSON number or as a numeric string.
type Price string

func ParsePrice(s string) (Price, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return "", fmt.Errorf("invalid price %q", s)
	}
	if r.Sign() < 0 {
		return "", errNegativePrice
	}
	return Price(r.FloatString(2)), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}

	parsed, err := ParsePrice(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
