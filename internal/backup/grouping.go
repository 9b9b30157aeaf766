package backup

import (
	"sort"
	"strconv"
)

// DriverPackage is the unit of export: every record installed from the same
// definition file within one device class. Records keep first-seen order; the
// first member is the primary record used for naming.
type DriverPackage struct {
	Class   string
	InfName string // Unknown when the definition file is not known
	key     string
	Records []DriverRecord
}

// Primary returns the package's first-inserted record. Grouping guarantees at
// least one member.
func (p *DriverPackage) Primary() DriverRecord {
	return p.Records[0]
}

// ExportIdentifier returns the definition-file identifier the export
// primitive should be addressed with, or "" when none is derivable from any
// member record.
func (p *DriverPackage) ExportIdentifier() string {
	if p.InfName != Unknown {
		return p.InfName
	}
	for _, r := range p.Records {
		if r.InfName != Unknown {
			return r.InfName
		}
	}
	return ""
}

// ClassBucket pairs a device class with the packages discovered for it, in
// first-seen order.
type ClassBucket struct {
	Class    string
	Packages []*DriverPackage
}

// Group partitions normalized records into class buckets of driver packages.
//
// Outer key is the device class, inner key the definition-file identifier.
// Records whose definition file is unknown are never merged by coincidence:
// they key on their own device ID, or on a unique per-record key when even
// that is missing.
//
// Group is a pure function of its input order: the same sequence always
// yields the same partition, the same primary records, and the same bucket
// order (buckets come back sorted by class name; packages within a bucket
// stay in discovery order). Classes with zero packages are not emitted.
func Group(records []DriverRecord) []ClassBucket {
	type classEntry struct {
		class    string
		index    map[string]*DriverPackage
		packages []*DriverPackage
	}

	entries := make(map[string]*classEntry)
	for i, rec := range records {
		entry, ok := entries[rec.Class]
		if !ok {
			entry = &classEntry{
				class: rec.Class,
				index: make(map[string]*DriverPackage),
			}
			entries[rec.Class] = entry
		}

		key := rec.InfName
		if rec.InfName == Unknown {
			if rec.DeviceID != Unknown {
				key = "device:" + rec.DeviceID
			} else {
				key = "record:" + strconv.Itoa(i)
			}
		}

		pkg, ok := entry.index[key]
		if !ok {
			pkg = &DriverPackage{
				Class:   rec.Class,
				InfName: rec.InfName,
				key:     key,
			}
			entry.index[key] = pkg
			entry.packages = append(entry.packages, pkg)
		}
		pkg.Records = append(pkg.Records, rec)
	}

	classes := make([]string, 0, len(entries))
	for class := range entries {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	buckets := make([]ClassBucket, 0, len(classes))
	for _, class := range classes {
		entry := entries[class]
		buckets = append(buckets, ClassBucket{
			Class:    entry.class,
			Packages: entry.packages,
		})
	}
	return buckets
}
