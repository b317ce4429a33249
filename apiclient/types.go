package apiclient

import "fmt"

// ApiError represents an RFC 7807 (problem+json) error response.
type ApiError struct {
	// Status is the HTTP-style status code (e.g., 400, 404, 500)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e ApiError) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// IsProblem reports whether e carries any problem fields.
func (e ApiError) IsProblem() bool { return e.Status != 0 || e.Title != "" }

type BusListResponse struct {
	Buses []uint32 `json:"buses"`
}

type BusResponse struct {
	BusID uint32 `json:"busId"`
}

// Device is a device attached to a VIIPER virtual bus.
type Device struct {
	BusID uint32 `json:"busId"`
	DevId string `json:"devId"`
	Vid   string `json:"vid"`
	Pid   string `json:"pid"`
	Type  string `json:"type"`
}

type DevicesListResponse struct {
	Devices []Device `json:"devices"`
}

type DeviceRemoveResponse struct {
	BusID uint32 `json:"busId"`
	DevId string `json:"devId"`
}

// DeviceOptions overrides descriptor fields of a created device.
type DeviceOptions struct {
	IdVendor  *uint16
	IdProduct *uint16
}

type deviceCreateRequest struct {
	Type      string  `json:"type"`
	IdVendor  *uint16 `json:"idVendor,omitempty"`
	IdProduct *uint16 `json:"idProduct,omitempty"`
}
