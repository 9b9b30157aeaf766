package pnp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
)

// enumerateQuery selects exactly the Win32_PnPSignedDriver fields the backup
// pipeline consumes and converts them to JSON so the output survives field
// values containing delimiters.
const enumerateQuery = `Get-CimInstance Win32_PnPSignedDriver | ` +
	`Select-Object DeviceName,Description,DeviceClass,ClassGuid,DriverProviderName,` +
	`DriverVersion,DriverDate,HardwareID,DeviceID,InfName | ConvertTo-Json -Depth 2`

// Enumerate queries the device database for every signed driver record.
// A wholesale query failure is fatal to the backup run.
func Enumerate() ([]RawDriver, error) {
	cmd := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", enumerateQuery)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("driver enumeration failed: %w (stderr: %s)", err, string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("driver enumeration failed: %w", err)
	}

	return parseEnumeration(output)
}

// parseEnumeration decodes ConvertTo-Json output. PowerShell emits a bare
// object when the query matches a single instance and an array otherwise.
func parseEnumeration(output []byte) ([]RawDriver, error) {
	trimmed := bytes.TrimSpace(output)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '{' {
		var one RawDriver
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, fmt.Errorf("failed to parse driver enumeration output: %w", err)
		}
		return []RawDriver{one}, nil
	}

	var drivers []RawDriver
	if err := json.Unmarshal(trimmed, &drivers); err != nil {
		return nil, fmt.Errorf("failed to parse driver enumeration output: %w", err)
	}
	return drivers, nil
}
