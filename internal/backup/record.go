package backup

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/blackwell-systems/driverkeep/internal/pnp"
)

// Unknown is the sentinel substituted for any missing record field.
const Unknown = "Unknown"

// ErrRecordRejected marks a raw record with no usable identity: device name,
// hardware ID, and device ID are all empty. Rejected records are dropped and
// counted, never fatal.
var ErrRecordRejected = errors.New("record has no usable identity fields")

// ErrVendorExcluded marks a record whose provider is the OS vendor (or a
// configured extra vendor). Excluded records never reach grouping.
var ErrVendorExcluded = errors.New("record provider is an excluded vendor")

// osVendors are provider strings whose drivers ship with the operating system
// and are never worth backing up. Matching is case-insensitive, exact or
// prefix.
var osVendors = []string{
	"microsoft",
	"microsoft corporation",
	"microsoft windows",
}

// DriverRecord is the canonical in-memory form of one device instance.
// Immutable once normalized.
type DriverRecord struct {
	DeviceName  string
	Description string
	Provider    string
	Version     string
	Date        string // canonical YYYY-MM-DD, or the raw string when unparseable
	Class       string
	ClassGUID   string
	HardwareID  string
	DeviceID    string
	InfName     string // definition-file identifier; Unknown when absent
}

// NormalizeStats counts what happened to the raw input during normalization.
type NormalizeStats struct {
	Seen     int
	Excluded int
	Rejected int
	Kept     int
}

// Normalizer converts raw enumeration records into DriverRecords, filtering
// OS-vendor drivers and substituting Unknown sentinels for missing fields.
type Normalizer struct {
	vendors []string
}

// NewNormalizer creates a Normalizer. extraVendors extends the built-in
// OS-vendor exclusion set (typically loaded from the vendors config file).
func NewNormalizer(extraVendors []string) *Normalizer {
	vendors := make([]string, 0, len(osVendors)+len(extraVendors))
	vendors = append(vendors, osVendors...)
	for _, v := range extraVendors {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			vendors = append(vendors, v)
		}
	}
	return &Normalizer{vendors: vendors}
}

// Normalize converts one raw record. Returns ErrVendorExcluded or
// ErrRecordRejected when the record must not reach grouping.
func (n *Normalizer) Normalize(raw pnp.RawDriver) (DriverRecord, error) {
	provider := collapseSpace(raw.DriverProviderName)
	if n.isExcludedVendor(provider) {
		return DriverRecord{}, ErrVendorExcluded
	}

	deviceName := collapseSpace(raw.DeviceName)
	hardwareID := collapseSpace(raw.HardwareID)
	deviceID := collapseSpace(raw.DeviceID)
	if deviceName == "" && hardwareID == "" && deviceID == "" {
		return DriverRecord{}, ErrRecordRejected
	}

	return DriverRecord{
		DeviceName:  orUnknown(deviceName),
		Description: orUnknown(collapseSpace(raw.Description)),
		Provider:    orUnknown(provider),
		Version:     orUnknown(collapseSpace(raw.DriverVersion)),
		Date:        canonicalDate(raw.DriverDate),
		Class:       orUnknown(collapseSpace(raw.DeviceClass)),
		ClassGUID:   orUnknown(collapseSpace(raw.ClassGuid)),
		HardwareID:  orUnknown(hardwareID),
		DeviceID:    orUnknown(deviceID),
		InfName:     orUnknown(strings.ToLower(collapseSpace(raw.InfName))),
	}, nil
}

// NormalizeAll converts a whole enumeration batch, dropping excluded and
// rejected records and tallying them in the returned stats.
func (n *Normalizer) NormalizeAll(raws []pnp.RawDriver) ([]DriverRecord, NormalizeStats) {
	var stats NormalizeStats
	records := make([]DriverRecord, 0, len(raws))
	for _, raw := range raws {
		stats.Seen++
		rec, err := n.Normalize(raw)
		switch {
		case errors.Is(err, ErrVendorExcluded):
			stats.Excluded++
		case errors.Is(err, ErrRecordRejected):
			stats.Rejected++
		default:
			stats.Kept++
			records = append(records, rec)
		}
	}
	return records, stats
}

func (n *Normalizer) isExcludedVendor(provider string) bool {
	p := strings.ToLower(provider)
	if p == "" {
		return false
	}
	for _, v := range n.vendors {
		if p == v || strings.HasPrefix(p, v) {
			return true
		}
	}
	return false
}

// collapseSpace trims the string and collapses internal whitespace runs to a
// single space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}

// canonicalDate normalizes the enumeration source's date formats to
// YYYY-MM-DD. WMI reports DMTF timestamps (20230115093000.000000+000) and the
// JSON conversion sometimes reports /Date(1673740800000)/. Unparseable
// non-empty values pass through unchanged so no information is lost.
func canonicalDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Unknown
	}

	// DMTF or plain yyyymmdd prefix.
	if len(s) >= 8 && allDigits(s[:8]) {
		month, merr := strconv.Atoi(s[4:6])
		day, derr := strconv.Atoi(s[6:8])
		if merr == nil && derr == nil && month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return s[0:4] + "-" + s[4:6] + "-" + s[6:8]
		}
		return s
	}

	// PowerShell JSON date: /Date(milliseconds)/
	if strings.HasPrefix(s, "/Date(") && strings.HasSuffix(s, ")/") {
		ms, err := strconv.ParseInt(s[6:len(s)-2], 10, 64)
		if err == nil {
			return time.UnixMilli(ms).UTC().Format("2006-01-02")
		}
		return s
	}

	// Already ISO-like.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", s); err == nil {
		return s
	}

	return s
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
