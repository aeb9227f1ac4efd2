package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/skillswap-org/skillswap-backend/internal/services"
)

type MeHandler struct {
  meService services.MeService
}

func NewMeHandler(meService services.MeService) *MeHandler {
  return &MeHandler{meService: meService}
}

func (mh *MeHandler) GetMe(c *gin.Context) {
  profile, err := mh.meService.GetMe(c.Request.Context(), nil)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (mh *MeHandler) UpdateMe(c *gin.Context) {
  var input services.UpdateMeInput
  if v, ok := c.GetPostForm("name"); ok {
    input.Name = &v
  }
  if v, ok := c.GetPostForm("username"); ok {
    input.Username = &v
  }
  if v, ok := c.GetPostForm("bio"); ok {
    input.Bio = &v
  }
  if v, ok := c.GetPostForm("phone"); ok {
    input.Phone = &v
  }
  avatar, _ := c.FormFile("avatar")

  profile, err := mh.meService.UpdateMe(c.Request.Context(), input, avatar)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"profile": profile})
}
