package sqlite

import (
	"errors"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/russross/meddler"
)

// init registers tags to be used to read/write from SQL DBs using meddler
func init() {
	meddler.Default = meddler.SQLite
	meddler.Register("uint", UintMeddler{})
}

// UintMeddler encodes or decodes an sdkmath.Uint to or from its decimal string
type UintMeddler struct{}

// PreRead is called before a Scan operation for fields that have the UintMeddler
func (UintMeddler) PreRead(fieldAddr interface{}) (scanTarget interface{}, err error) {
	return new(string), nil
}

// PostRead is called after a Scan operation for fields that have the UintMeddler
func (UintMeddler) PostRead(fieldPtr, scanTarget interface{}) error {
	ptr, ok := scanTarget.(*string)
	if !ok {
		return errors.New("scanTarget is not *string")
	}
	if ptr == nil {
		return errors.New("UintMeddler.PostRead: nil pointer")
	}
	field, ok := fieldPtr.(*sdkmath.Uint)
	if !ok {
		return errors.New("fieldPtr is not *sdkmath.Uint")
	}
	u, err := sdkmath.ParseUint(*ptr)
	if err != nil {
		return fmt.Errorf("sdkmath.ParseUint failed on %q: %w", *ptr, err)
	}
	*field = u
	return nil
}

// PreWrite is called before an Insert or Update operation for fields that have the UintMeddler
func (UintMeddler) PreWrite(fieldPtr interface{}) (saveValue interface{}, err error) {
	field, ok := fieldPtr.(sdkmath.Uint)
	if !ok {
		return nil, errors.New("fieldPtr is not sdkmath.Uint")
	}
	if field.IsNil() {
		return nil, errors.New("UintMeddler.PreWrite: nil amount")
	}
	return field.String(), nil
}
