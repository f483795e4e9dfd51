package businessflow

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/mh853/Funnely-sub001/models"
	"gorm.io/datatypes"
)

var payloadValidator = validator.New()

// decodePayload unmarshals a stored JSON column into T and validates it.
// A document that parses but fails validation is returned along with the error.
func decodePayload[T any](raw datatypes.JSON, what string) (*T, error) {
	var v T
	if len(raw) == 0 {
		return nil, NewBusinessErrorf("DECODE_FAILED", "%s is empty", ErrDecodeFailed, what)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, NewBusinessErrorf("DECODE_FAILED", "%s is not valid JSON", errors.Join(ErrDecodeFailed, err), what)
	}
	if err := payloadValidator.Struct(&v); err != nil {
		return &v, NewBusinessErrorf("DECODE_FAILED", "%s failed validation", errors.Join(ErrDecodeFailed, err), what)
	}
	return &v, nil
}

func decodeColumnMapping(raw datatypes.JSON) (*models.ColumnMapping, error) {
	return decodePayload[models.ColumnMapping](raw, "column mapping")
}

func decodeLeadDigestData(raw datatypes.JSON) (*models.LeadDigestData, error) {
	return decodePayload[models.LeadDigestData](raw, "lead data")
}
