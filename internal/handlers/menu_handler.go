package handlers

import (
	"net/http"
	"strconv"

	"foodapp/internal/middleware"
	"foodapp/internal/models"
	"foodapp/internal/services"

	"github.com/rs/zerolog"
)

const maxUploadSize = 10 << 20

type MenuHandler struct {
	menuService *services.MenuService
	logger      zerolog.Logger
}

func NewMenuHandler(menuService *services.MenuService, logger zerolog.Logger) *MenuHandler {
	return &MenuHandler{
		menuService: menuService,
		logger:      logger,
	}
}

func (h *MenuHandler) AddFoodItem(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid multipart body")
		return
	}

	pickUp, _ := strconv.ParseBool(r.FormValue("pickUp"))
	delivery, _ := strconv.ParseBool(r.FormValue("delivery"))
	form := models.FoodItemForm{
		Name:                r.FormValue("name"),
		Price:               r.FormValue("price"),
		Category:            r.FormValue("category"),
		Description:         r.FormValue("description"),
		PickUp:              pickUp,
		Delivery:            delivery,
		SelectedIngredients: r.MultipartForm.Value["selectedIngredients[]"],
	}

	var image *services.ImageMeta
	if file, header, err := r.FormFile("image"); err == nil {
		file.Close()
		form.Image = header.Filename
		image = &services.ImageMeta{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
		}
	}

	item, err := h.menuService.AddItem(r.Context(), sellerID, form, image)
	if err != nil {
		if respondWithValidation(w, err) {
			return
		}
		respondWithError(w, http.StatusInternalServerError, "create_failed", "Failed to add dish")
		return
	}

	respondWithJSON(w, http.StatusCreated, "Dish added successfully!", item)
}

func (h *MenuHandler) ListFoodItems(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	items, err := h.menuService.ListItems(r.Context(), sellerID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "list_failed", "Failed to list menu")
		return
	}
	respondWithJSON(w, http.StatusOK, "", items)
}
