// internal/handlers/song.go
package handlers

import (
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tunetrust/tunetrust-backend/internal/i18n"
	"github.com/tunetrust/tunetrust-backend/internal/models"
	"github.com/tunetrust/tunetrust-backend/internal/services"
	"github.com/tunetrust/tunetrust-backend/internal/utils"
)

type SongHandler struct {
	songService *services.SongService
}

func NewSongHandler(songService *services.SongService) *SongHandler {
	return &SongHandler{
		songService: songService,
	}
}

// POST /songs — multipart form: "metadata" JSON field + "file" audio part
func (h *SongHandler) CreateSong(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	auth, exists := utils.GetAuthFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	metadata := c.PostForm("metadata")
	if metadata == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "metadata"), nil)
		return
	}

	var req services.CreateSongRequest
	if err := json.Unmarshal([]byte(metadata), &req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "metadata"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "file"), err.Error())
		return
	}
	defer file.Close()

	song, err := h.songService.CreateSong(auth, &req, file, header)
	if err != nil {
		if strings.Contains(err.Error(), "similar to an existing track") {
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeySongPlagiarized))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySongCreated),
		"song":    song,
	})
}

// GET /songs
func (h *SongHandler) ListSongs(c *gin.Context) {
	params := services.SongSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if uploaderIDStr := c.Query("uploader_id"); uploaderIDStr != "" {
		if uploaderID, err := uuid.Parse(uploaderIDStr); err == nil {
			params.UploaderID = &uploaderID
		}
	}
	if status := c.Query("status"); status != "" {
		songStatus := models.SongStatus(status)
		params.Status = &songStatus
	}

	result, err := h.songService.ListSongs(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /songs/:id
func (h *SongHandler) GetSong(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid song ID", nil)
		return
	}

	song, err := h.songService.GetSong(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeySongNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, song)
}

// PUT /songs/:id
func (h *SongHandler) UpdateSong(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	auth, exists := utils.GetAuthFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid song ID", nil)
		return
	}

	var req services.UpdateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	song, err := h.songService.UpdateSong(auth, id, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeySongNotFound)
			return
		}
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySongUpdated),
		"song":    song,
	})
}

// DELETE /songs/:id
func (h *SongHandler) DeleteSong(c *gin.Context) {
	auth, exists := utils.GetAuthFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid song ID", nil)
		return
	}

	if err := h.songService.DeleteSong(auth, id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeySongNotFound)
			return
		}
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
