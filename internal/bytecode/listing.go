package bytecode

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/xirelogy/go-lox/internal/value"
)

// Listing is a serialisable view of a chunk for external tools.
type Listing struct {
	Name      string            `cbor:"1,keyasint"`
	Code      []ListingEntry    `cbor:"2,keyasint"`
	Constants []ListingConstant `cbor:"3,keyasint,omitempty"`
}

// ListingEntry is one decoded instruction.
type ListingEntry struct {
	Offset  int    `cbor:"1,keyasint"`
	Op      string `cbor:"2,keyasint"`
	Operand *uint8 `cbor:"3,keyasint,omitempty"`
	Line    int    `cbor:"4,keyasint"`
}

// ListingConstant is a constant pool slot rendered as text.
type ListingConstant struct {
	Kind string `cbor:"1,keyasint"`
	Text string `cbor:"2,keyasint"`
}

var listingEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	listingEncMode = em
}

// NewListing decodes chunk into a listing.
func NewListing(name string, chunk *Chunk) (*Listing, error) {
	if chunk == nil {
		return nil, fmt.Errorf("nil chunk")
	}
	ins, err := chunk.Instructions()
	if err != nil {
		return nil, err
	}
	l := &Listing{Name: name, Code: make([]ListingEntry, 0, len(ins))}
	for _, in := range ins {
		e := ListingEntry{Offset: in.Offset, Op: in.Op.String(), Line: in.Line}
		if in.HasOperand {
			operand := in.Operand
			e.Operand = &operand
		}
		l.Code = append(l.Code, e)
	}
	for _, c := range chunk.Constants {
		kind := c.Kind().String()
		if c.IsString() {
			kind = "string"
		}
		l.Constants = append(l.Constants, ListingConstant{Kind: kind, Text: value.Format(c)})
	}
	return l, nil
}

// EncodeListing serialises l to canonical CBOR, so equal listings always
// produce identical bytes.
func EncodeListing(l *Listing) ([]byte, error) {
	return listingEncMode.Marshal(l)
}

// DecodeListing parses CBOR produced by EncodeListing.
func DecodeListing(data []byte) (*Listing, error) {
	var l Listing
	if err := cbor.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal listing: %w", err)
	}
	return &l, nil
}
