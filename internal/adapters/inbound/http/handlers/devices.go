package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/carlosduarte/devices-api/internal/domain/model"
	"github.com/carlosduarte/devices-api/internal/usecases"
	"github.com/carlosduarte/devices-api/internal/usecases/commands"
	"github.com/carlosduarte/devices-api/internal/usecases/queries"
	"github.com/go-chi/chi/v5"
)

// creationTimeLayout is the wire format for device creation timestamps.
const creationTimeLayout = "2006-01-02 15:04:05"

type (
	deviceData struct {
		ID           int64  `json:"id"`
		Name         string `json:"name"`
		Brand        string `json:"brand"`
		State        string `json:"state"`
		CreationTime string `json:"creationTime"`
	}

	createUpdateDeviceRequest struct {
		Name  string  `json:"name"`
		Brand string  `json:"brand"`
		State *string `json:"state"`
	}

	DeviceHandler struct {
		app *usecases.Application
	}
)

func NewDeviceHandler(app *usecases.Application) *DeviceHandler {
	return &DeviceHandler{app: app}
}

func (h *DeviceHandler) GetDevice(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseDeviceID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)

		return
	}

	device, err := h.app.Queries.GetDevice.Execute(r.Context(), queries.GetDeviceQuery{ID: id})
	if err != nil {
		writeDomainError(w, err)

		return
	}

	writeJSONResponse(w, http.StatusOK, toDeviceData(device))
}

func (h *DeviceHandler) ListDevicesByBrand(w http.ResponseWriter, r *http.Request) {
	brand := chi.URLParam(r, "brand")

	devices, err := h.app.Queries.ListDevices.Execute(r.Context(), queries.ListDevicesQuery{Brand: &brand})
	if err != nil {
		writeDomainError(w, err)

		return
	}

	writeJSONResponse(w, http.StatusOK, toDeviceDataList(devices))
}

func (h *DeviceHandler) ListDevicesByState(w http.ResponseWriter, r *http.Request) {
	state, err := model.ParseState(chi.URLParam(r, "state"))
	if err != nil {
		writeDomainError(w, err)

		return
	}

	devices, err := h.app.Queries.ListDevices.Execute(r.Context(), queries.ListDevicesQuery{State: &state})
	if err != nil {
		writeDomainError(w, err)

		return
	}

	writeJSONResponse(w, http.StatusOK, toDeviceDataList(devices))
}

func (h *DeviceHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.app.Queries.ListDevices.Execute(r.Context(), queries.ListDevicesQuery{})
	if err != nil {
		writeDomainError(w, err)

		return
	}

	writeJSONResponse(w, http.StatusOK, toDeviceDataList(devices))
}

func (h *DeviceHandler) CreateDevice(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCreateUpdateRequest(r)
	if err != nil {
		writeDomainError(w, err)

		return
	}

	device, err := h.app.Commands.CreateDevice.Handle(r.Context(), commands.CreateDeviceCommand{Request: req})
	if err != nil {
		writeDomainError(w, err)

		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/device/%d", device.ID))
	writeJSONResponse(w, http.StatusCreated, toDeviceData(device))
}

func (h *DeviceHandler) UpdateDevice(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseDeviceID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)

		return
	}

	req, err := decodeCreateUpdateRequest(r)
	if err != nil {
		writeDomainError(w, err)

		return
	}

	cmd := commands.UpdateDeviceCommand{ID: id, Request: req}
	if _, err := h.app.Commands.UpdateDevice.Handle(r.Context(), cmd); err != nil {
		writeDomainError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DeviceHandler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseDeviceID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)

		return
	}

	if _, err := h.app.Commands.DeleteDevice.Handle(r.Context(), commands.DeleteDeviceCommand{ID: id}); err != nil {
		writeDomainError(w, err)

		return
	}

	w.WriteHeader(http.StatusOK)
}

func decodeCreateUpdateRequest(r *http.Request) (model.CreateUpdateDevice, error) {
	var body createUpdateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return model.CreateUpdateDevice{}, model.ErrMalformedRequestBody
	}

	req := model.CreateUpdateDevice{
		Name:  body.Name,
		Brand: body.Brand,
	}

	if body.State != nil {
		state, err := model.ParseState(*body.State)
		if err != nil {
			return model.CreateUpdateDevice{}, err
		}
		req.State = &state
	}

	return req, nil
}

func toDeviceData(device *model.Device) deviceData {
	return deviceData{
		ID:           int64(device.ID),
		Name:         device.Name,
		Brand:        device.Brand,
		State:        device.State.String(),
		CreationTime: device.CreationTime.Format(creationTimeLayout),
	}
}

func toDeviceDataList(devices []*model.Device) []deviceData {
	list := make([]deviceData, 0, len(devices))
	for _, device := range devices {
		list = append(list, toDeviceData(device))
	}

	return list
}
