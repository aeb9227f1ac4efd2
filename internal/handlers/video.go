package handlers

import (
  "errors"
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/skillswap-org/skillswap-backend/internal/services"
)

type VideoHandler struct {
  videoService services.VideoService
}

func NewVideoHandler(videoService services.VideoService) *VideoHandler {
  return &VideoHandler{videoService: videoService}
}

func (vh *VideoHandler) Upload(c *gin.Context) {
  costCredits := int64(0)
  if v := c.PostForm("costCredits"); v != "" {
    parsed, err := strconv.ParseInt(v, 10, 64)
    if err != nil || parsed < 0 {
      c.JSON(http.StatusBadRequest, gin.H{"error": "costCredits must be a non-negative integer"})
      return
    }
    costCredits = parsed
  }
  input := services.UploadVideoInput{
    Title:       c.PostForm("title"),
    Description: c.PostForm("description"),
    CostCredits: costCredits,
  }
  file, err := c.FormFile("file")
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrNoFile.Error()})
    return
  }

  video, err := vh.videoService.Upload(c.Request.Context(), input, file)
  if err != nil {
    status := http.StatusBadRequest
    if errors.Is(err, services.ErrStorageUnavailable) {
      status = http.StatusServiceUnavailable
    }
    c.JSON(status, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"video": video})
}

func (vh *VideoHandler) ListFeed(c *gin.Context) {
  videos, err := vh.videoService.ListFeed(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"videos": videos})
}

func (vh *VideoHandler) Watch(c *gin.Context) {
  videoID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
    return
  }
  result, err := vh.videoService.Watch(c.Request.Context(), videoID)
  if err != nil {
    switch {
    case errors.Is(err, services.ErrVideoNotFound):
      c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
    case errors.Is(err, services.ErrNotEnoughCredits):
      c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
    default:
      c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    }
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "videoUrl":     result.Video.VideoURL,
    "creditsSpent": result.CreditsSpent,
  })
}
