// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mwrenn/avsignallab/internal/catalog"
	"github.com/mwrenn/avsignallab/internal/metrics"
)

// Devices lists every device in every category, built-in and custom.
func (rt *Router) Devices(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, rt.catalog.All())
}

// DevicesByCategory lists one category.
func (rt *Router) DevicesByCategory(w http.ResponseWriter, r *http.Request) {
	category := catalog.Category(chi.URLParam(r, "category"))
	if !category.Valid() {
		respondError(w, http.StatusBadRequest, "INVALID_CATEGORY",
			fmt.Sprintf("unknown device category %q", category), nil)
		return
	}
	respondData(w, r, http.StatusOK, rt.catalog.List(category))
}

// CustomDevices lists user-added devices across all categories.
func (rt *Router) CustomDevices(w http.ResponseWriter, r *http.Request) {
	if rt.store == nil {
		respondError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE",
			"custom device storage is not configured", nil)
		return
	}

	devices := make(map[catalog.Category][]catalog.Device, len(catalog.Categories))
	for _, category := range catalog.Categories {
		list, err := rt.store.List(category)
		if err != nil {
			metrics.RecordStoreOperation("list", err)
			respondDomainError(w, err)
			return
		}
		devices[category] = list
	}
	metrics.RecordStoreOperation("list", nil)
	respondData(w, r, http.StatusOK, devices)
}

// CreateCustomDevice stores a user-defined device profile.
func (rt *Router) CreateCustomDevice(w http.ResponseWriter, r *http.Request) {
	if rt.store == nil {
		respondError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE",
			"custom device storage is not configured", nil)
		return
	}

	var device catalog.Device
	if err := decodeJSONBody(w, r, rt.cfg.Server.MaxUploadMB<<20, &device); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", fmt.Sprintf("Invalid JSON: %v", err), nil)
		return
	}

	if err := rt.store.Put(device.Category, device); err != nil {
		metrics.RecordStoreOperation("put", err)
		respondError(w, http.StatusBadRequest, "INVALID_DEVICE", err.Error(), nil)
		return
	}
	metrics.RecordStoreOperation("put", nil)

	stored, err := rt.store.Get(device.Category, device.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, r, http.StatusCreated, stored)
}

// UpdateCustomDevice replaces an existing user-added device profile.
func (rt *Router) UpdateCustomDevice(w http.ResponseWriter, r *http.Request) {
	if rt.store == nil {
		respondError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE",
			"custom device storage is not configured", nil)
		return
	}

	category := catalog.Category(chi.URLParam(r, "category"))
	if !category.Valid() {
		respondError(w, http.StatusBadRequest, "INVALID_CATEGORY",
			fmt.Sprintf("unknown device category %q", category), nil)
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := rt.store.Get(category, id); err != nil {
		metrics.RecordStoreOperation("get", err)
		respondDomainError(w, err)
		return
	}

	var device catalog.Device
	if err := decodeJSONBody(w, r, rt.cfg.Server.MaxUploadMB<<20, &device); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", fmt.Sprintf("Invalid JSON: %v", err), nil)
		return
	}
	// Identity comes from the URL, not the body.
	device.Category = category
	device.ID = id

	if err := rt.store.Put(category, device); err != nil {
		metrics.RecordStoreOperation("put", err)
		respondError(w, http.StatusBadRequest, "INVALID_DEVICE", err.Error(), nil)
		return
	}
	metrics.RecordStoreOperation("put", nil)

	stored, err := rt.store.Get(category, id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, r, http.StatusOK, stored)
}

// DeleteCustomDevice removes a user-added device. Built-in devices
// cannot be deleted; the store never holds them.
func (rt *Router) DeleteCustomDevice(w http.ResponseWriter, r *http.Request) {
	if rt.store == nil {
		respondError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE",
			"custom device storage is not configured", nil)
		return
	}

	category := catalog.Category(chi.URLParam(r, "category"))
	if !category.Valid() {
		respondError(w, http.StatusBadRequest, "INVALID_CATEGORY",
			fmt.Sprintf("unknown device category %q", category), nil)
		return
	}

	id := chi.URLParam(r, "id")
	if err := rt.store.Delete(category, id); err != nil {
		metrics.RecordStoreOperation("delete", err)
		respondDomainError(w, err)
		return
	}
	metrics.RecordStoreOperation("delete", nil)
	respondData(w, r, http.StatusOK, map[string]string{"deleted": id})
}
