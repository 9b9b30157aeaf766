package pnp

import "testing"

func TestParseEnumerationArray(t *testing.T) {
	output := []byte(`[
  {
    "DeviceName": "NVIDIA GeForce RTX 3080",
    "DeviceClass": "DISPLAY",
    "DriverProviderName": "NVIDIA",
    "DriverVersion": "31.0.15.3623",
    "DriverDate": "/Date(1673740800000)/",
    "InfName": "oem42.inf"
  },
  {
    "DeviceName": "Intel(R) Ethernet Connection",
    "DeviceClass": "NET",
    "DriverProviderName": "Intel",
    "InfName": "oem7.inf"
  }
]`)

	drivers, err := parseEnumeration(output)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drivers) != 2 {
		t.Fatalf("len(drivers) = %d, want 2", len(drivers))
	}
	if drivers[0].DeviceName != "NVIDIA GeForce RTX 3080" {
		t.Errorf("DeviceName = %q", drivers[0].DeviceName)
	}
	if drivers[0].DriverDate != "/Date(1673740800000)/" {
		t.Errorf("DriverDate = %q, want the raw JSON date preserved", drivers[0].DriverDate)
	}
	if drivers[1].InfName != "oem7.inf" {
		t.Errorf("InfName = %q", drivers[1].InfName)
	}
}

func TestParseEnumerationSingleObject(t *testing.T) {
	// ConvertTo-Json emits a bare object when the query matches one instance.
	output := []byte(`{"DeviceName": "Lone Device", "DeviceClass": "SYSTEM"}`)

	drivers, err := parseEnumeration(output)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drivers) != 1 {
		t.Fatalf("len(drivers) = %d, want 1", len(drivers))
	}
	if drivers[0].DeviceName != "Lone Device" {
		t.Errorf("DeviceName = %q", drivers[0].DeviceName)
	}
}

func TestParseEnumerationEmpty(t *testing.T) {
	for _, output := range [][]byte{nil, []byte(""), []byte("  \r\n")} {
		drivers, err := parseEnumeration(output)
		if err != nil {
			t.Errorf("parseEnumeration(%q) error: %v", output, err)
		}
		if len(drivers) != 0 {
			t.Errorf("parseEnumeration(%q) = %d drivers, want 0", output, len(drivers))
		}
	}
}

func TestParseEnumerationMalformed(t *testing.T) {
	if _, err := parseEnumeration([]byte(`[{"DeviceName": `)); err == nil {
		t.Error("malformed array did not error")
	}
	if _, err := parseEnumeration([]byte(`{"DeviceName": `)); err == nil {
		t.Error("malformed object did not error")
	}
}

func TestParseEnumerationMissingFields(t *testing.T) {
	// Any field may be absent; missing fields decode as empty strings.
	drivers, err := parseEnumeration([]byte(`[{"DeviceClass": "SYSTEM"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if drivers[0].DeviceName != "" || drivers[0].InfName != "" {
		t.Errorf("missing fields not empty: %+v", drivers[0])
	}
}
