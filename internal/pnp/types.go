// Package pnp talks to the Windows Plug-and-Play machinery: device
// enumeration via the WMI Win32_PnPSignedDriver class and driver-package
// export via pnputil.
package pnp

// RawDriver mirrors one Win32_PnPSignedDriver instance as reported by the
// device database. Any field may be empty.
type RawDriver struct {
	DeviceName         string `json:"DeviceName"`
	Description        string `json:"Description"`
	DeviceClass        string `json:"DeviceClass"`
	ClassGuid          string `json:"ClassGuid"`
	DriverProviderName string `json:"DriverProviderName"`
	DriverVersion      string `json:"DriverVersion"`
	DriverDate         string `json:"DriverDate"`
	HardwareID         string `json:"HardwareID"`
	DeviceID           string `json:"DeviceID"`
	InfName            string `json:"InfName"`
}

// FailureKind classifies an export failure.
type FailureKind int

const (
	FailureOther FailureKind = iota
	FailurePermissionDenied
	FailureNotFound
	FailurePathTooLong
)

// String returns the operator-facing label for the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailurePermissionDenied:
		return "permission denied"
	case FailureNotFound:
		return "not found"
	case FailurePathTooLong:
		return "path too long"
	default:
		return "export error"
	}
}

// ExportError is a typed export failure from the export primitive.
type ExportError struct {
	Kind    FailureKind
	Inf     string
	Message string
	Err     error
}

func (e *ExportError) Error() string {
	if e.Message != "" {
		return "export " + e.Inf + ": " + e.Message
	}
	if e.Err != nil {
		return "export " + e.Inf + ": " + e.Err.Error()
	}
	return "export " + e.Inf + ": " + e.Kind.String()
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Exporter copies one driver package, addressed by its definition-file
// identifier, into a destination directory. Implementations must be safe to
// call once per distinct identifier; the orchestrator never calls them twice
// for the same one.
type Exporter interface {
	// Export returns the number of files copied, or an *ExportError.
	Export(infName, destDir string) (int, error)
}
