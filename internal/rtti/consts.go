// Package rtti implements the run-time-type-information tables of an
// SMX image and the type-signature decoder that resolves references
// between them.
package rtti

// Control bytes of the type-signature encoding.
const (
	TypeBool        uint8 = 0x01
	TypeInt32       uint8 = 0x06
	TypeFloat32     uint8 = 0x0c
	TypeChar8       uint8 = 0x0e
	TypeAny         uint8 = 0x10
	TypeTopFunction uint8 = 0x11

	TypeFixedArray uint8 = 0x30
	TypeArray      uint8 = 0x31
	TypeFunction   uint8 = 0x32

	TypeEnum       uint8 = 0x42
	TypeTypedef    uint8 = 0x43
	TypeTypeset    uint8 = 0x44
	TypeStruct     uint8 = 0x45
	TypeEnumStruct uint8 = 0x46

	TypeVoid     uint8 = 0x70
	TypeVariadic uint8 = 0x71
	TypeByRef    uint8 = 0x72
	TypeConst    uint8 = 0x73
)

// TypeID kind discriminators, stored in the low 4 bits of a type id.
const (
	TypeIDInline  uint32 = 0x0
	TypeIDComplex uint32 = 0x1
)
