package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadImage 校验并保存上传的图片，返回可访问的地址与尺寸。
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		fail(c, badRequest("No image file provided"))
		return
	}

	src, err := file.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer src.Close()

	image, err := a.uploads.SaveImage(src, file.Size)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":    image.URL,
		"width":  image.Width,
		"height": image.Height,
	})
}
