package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/tradex/exchange-service/internal/domain"
)

// ErrParse matches every *ParseError via errors.Is.
var ErrParse = errors.New("wallet address source could not be parsed")

// ParseError reports why the wallet address source was rejected.
type ParseError struct {
	Index  int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := "parse wallet addresses: " + e.Reason
	if e.Index >= 0 {
		msg = fmt.Sprintf("parse wallet addresses: element %d: %s", e.Index, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes a JSON array of wallet address definitions. Every element is
// validated before anything is returned, so a bad element means zero writes.
func Parse(raw string) ([]domain.WalletAddress, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &ParseError{Index: -1, Reason: "source is empty"}
	}
	if !strings.HasPrefix(trimmed, "[") {
		return nil, &ParseError{Index: -1, Reason: "expected a JSON array of objects"}
	}

	var elements []map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &elements); err != nil {
		return nil, &ParseError{Index: -1, Reason: "expected a JSON array of objects", Err: err}
	}

	addresses := make([]domain.WalletAddress, 0, len(elements))
	for i, el := range elements {
		addr, err := parseElement(el)
		if err != nil {
			return nil, &ParseError{Index: i, Reason: err.Error()}
		}
		addresses = append(addresses, addr)
	}
	return addresses, nil
}

func parseElement(el map[string]interface{}) (domain.WalletAddress, error) {
	if el == nil {
		return domain.WalletAddress{}, errors.New("element is null")
	}

	methodCode, err := stringField(el, "method_code")
	if err != nil {
		return domain.WalletAddress{}, err
	}
	if methodCode == "" {
		return domain.WalletAddress{}, errors.New("method_code is required")
	}

	addr := domain.WalletAddress{MethodCode: methodCode}
	if addr.Name, err = stringField(el, "name"); err != nil {
		return domain.WalletAddress{}, err
	}
	if addr.Abbreviation, err = stringField(el, "abbreviation"); err != nil {
		return domain.WalletAddress{}, err
	}
	if addr.GatewayParameter, err = gatewayParameter(el["gateway_parameter"]); err != nil {
		return domain.WalletAddress{}, err
	}
	if addr.CoingeckoID, err = stringField(el, "coingecko_id"); err != nil {
		return domain.WalletAddress{}, err
	}

	if v, ok := el["status"]; ok && v != nil {
		status, err := intField(v)
		if err != nil {
			return domain.WalletAddress{}, fmt.Errorf("status: %w", err)
		}
		addr.Status = status
	}
	return addr, nil
}

// intField accepts integral JSON numbers and base-10 strings. Fractions,
// booleans and other types are rejected rather than truncated.
func intField(v interface{}) (int, error) {
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) || t > math.MaxInt32 || t < math.MinInt32 {
			return 0, fmt.Errorf("%v is not an integer", t)
		}
		return int(t), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("%q is not a decimal integer", t)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func stringField(el map[string]interface{}, key string) (string, error) {
	v, ok := el[key]
	if !ok || v == nil {
		return "", nil
	}
	// Whole-number floats come from json.Unmarshal; keep "1000" rather than "1e+03".
	if f, isFloat := v.(float64); isFloat && f == float64(int64(f)) {
		v = int64(f)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	return strings.TrimSpace(s), nil
}

// gatewayParameter keeps the parameter verbatim: strings as-is, structured
// values re-encoded as JSON.
func gatewayParameter(v interface{}) (string, error) {
	switch p := v.(type) {
	case nil:
		return "", nil
	case string:
		return p, nil
	default:
		encoded, err := json.Marshal(p)
		if err != nil {
			return "", fmt.Errorf("gateway_parameter: %w", err)
		}
		return string(encoded), nil
	}
}
