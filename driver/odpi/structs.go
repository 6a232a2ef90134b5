//go:build linux || darwin

package odpi

import (
	"unsafe"

	"github.com/sqlsqrt/sqlsqrt/driver"
)

// C struct mirrors. Field order, widths, and padding must match the ODPI-C
// 4.1 headers exactly; these are read and written across the FFI boundary.

type cErrorInfo struct {
	code          int32
	offset16      uint16
	_             [2]byte
	message       uintptr // const char*
	messageLength uint32
	_             [4]byte
	encoding      uintptr // const char*
	fnName        uintptr // const char*
	action        uintptr // const char*
	sqlState      uintptr // const char*
	isRecoverable int32
	_             [4]byte
}

type cTimestamp struct {
	year           int16
	month          uint8
	day            uint8
	hour           uint8
	minute         uint8
	second         uint8
	_              [1]byte
	fsecond        uint32
	tzHourOffset   int8
	tzMinuteOffset int8
	_              [2]byte
}

type cBytes struct {
	ptr      uintptr // char*
	length   uint32
	_        [4]byte
	encoding uintptr // const char*
}

// cData mirrors dpiData: a null flag followed by a value union. The union is
// sized by its largest member, dpiBytes.
type cData struct {
	isNull int32
	_      [4]byte
	value  [24]byte
}

type cDataTypeInfo struct {
	oracleTypeNum        uint32
	defaultNativeTypeNum uint32
	ociTypeCode          uint16
	_                    [2]byte
	dbSizeInBytes        uint32
	clientSizeInBytes    uint32
	sizeInChars          uint32
	precision            int16
	scale                int8
	fsPrecision          uint8
	_                    [4]byte
	objectType           uintptr // dpiObjectType*
}

type cQueryInfo struct {
	name       uintptr // const char*
	nameLength uint32
	_          [4]byte
	typeInfo   cDataTypeInfo
	nullOk     int32
	_          [4]byte
}

// goString copies a length-delimited native string into Go memory. The
// native buffer is only valid until the next call on the same handle.
func goString(p uintptr, n uint32) string {
	if p == 0 || n == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}

// goCString copies a NUL-terminated native string into Go memory.
func goCString(p uintptr) string {
	if p == 0 {
		return ""
	}
	n := uint32(0)
	for *(*byte)(unsafe.Pointer(p + uintptr(n))) != 0 {
		n++
	}
	return goString(p, n)
}

func (e *cErrorInfo) toDriver() driver.ErrorInfo {
	return driver.ErrorInfo{
		Code:          e.code,
		Offset:        uint32(e.offset16),
		Message:       goString(e.message, e.messageLength),
		FnName:        goCString(e.fnName),
		Action:        goCString(e.action),
		SQLState:      goCString(e.sqlState),
		IsRecoverable: e.isRecoverable != 0,
	}
}

func (ti *cDataTypeInfo) toDriver() driver.DataTypeInfo {
	return driver.DataTypeInfo{
		OracleType:        driver.OracleType(ti.oracleTypeNum),
		DefaultNativeType: driver.NativeType(ti.defaultNativeTypeNum),
		DBSizeInBytes:     ti.dbSizeInBytes,
		ClientSizeInBytes: ti.clientSizeInBytes,
		SizeInChars:       ti.sizeInChars,
		Precision:         ti.precision,
		Scale:             ti.scale,
		FsPrecision:       ti.fsPrecision,
	}
}

func dataPtr(d driver.Data) *cData {
	return (*cData)(unsafe.Pointer(uintptr(d)))
}

func (d *cData) bool() bool {
	return *(*int32)(unsafe.Pointer(&d.value)) != 0
}

func (d *cData) int64() int64 {
	return *(*int64)(unsafe.Pointer(&d.value))
}

func (d *cData) uint64() uint64 {
	return *(*uint64)(unsafe.Pointer(&d.value))
}

func (d *cData) float32() float32 {
	return *(*float32)(unsafe.Pointer(&d.value))
}

func (d *cData) float64() float64 {
	return *(*float64)(unsafe.Pointer(&d.value))
}

func (d *cData) bytes() []byte {
	b := (*cBytes)(unsafe.Pointer(&d.value))
	if b.ptr == 0 || b.length == 0 {
		return nil
	}
	out := make([]byte, b.length)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(b.ptr)), b.length))
	return out
}

func (d *cData) timestamp() *driver.Timestamp {
	ts := (*cTimestamp)(unsafe.Pointer(&d.value))
	return &driver.Timestamp{
		Year:           ts.year,
		Month:          ts.month,
		Day:            ts.day,
		Hour:           ts.hour,
		Minute:         ts.minute,
		Second:         ts.second,
		FSecond:        ts.fsecond,
		TZHourOffset:   ts.tzHourOffset,
		TZMinuteOffset: ts.tzMinuteOffset,
	}
}

func (d *cData) handle() driver.Handle {
	return driver.Handle(*(*uintptr)(unsafe.Pointer(&d.value)))
}
