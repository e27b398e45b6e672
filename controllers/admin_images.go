package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"bookstore-web/session"

	"github.com/gin-gonic/gin"
)

const imagePageSize = 24

// Images handles GET /admin/images.
func (ac *AdminController) Images(c *gin.Context) {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}

	images, serr := ac.images.List(c.Request.Context(), token(c), page, imagePageSize)
	if serr != nil {
		ac.Fail(c, serr)
		return
	}
	ac.Render(c, http.StatusOK, "admin/images", gin.H{
		"Title":   "Images",
		"Images":  images,
		"Page":    page,
		"HasNext": len(images) == imagePageSize,
	})
}

// UploadImages handles POST /admin/images. Several files can be sent in the
// "files" field; each is checked and uploaded on its own.
func (ac *AdminController) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		ac.Flash(c, session.FlashError, "Choose at least one image to upload")
		ac.Redirect(c, "/admin/images")
		return
	}

	uploaded := 0
	var problems []string
	for _, fh := range form.File["files"] {
		if _, serr := ac.images.Upload(c.Request.Context(), token(c), fh); serr != nil {
			if serr.Unauthorized() {
				ac.Fail(c, serr)
				return
			}
			problems = append(problems, fmt.Sprintf("%s: %s", fh.Filename, serr.Message))
			continue
		}
		uploaded++
	}

	if uploaded > 0 {
		ac.Flash(c, session.FlashSuccess, fmt.Sprintf("%d images uploaded", uploaded))
	}
	if len(problems) > 0 {
		ac.Flash(c, session.FlashError, strings.Join(problems, "; "))
	}
	ac.Redirect(c, "/admin/images")
}

// DeleteImage handles POST /admin/images/delete.
func (ac *AdminController) DeleteImage(c *gin.Context) {
	name := c.PostForm("filename")
	if serr := ac.images.Delete(c.Request.Context(), token(c), name); serr != nil {
		ac.FailAndBack(c, serr, "/admin/images")
		return
	}
	ac.Flash(c, session.FlashSuccess, fmt.Sprintf("%s has been deleted", name))
	ac.Back(c, "/admin/images")
}

// BulkDeleteImages handles POST /admin/images/bulk-delete.
func (ac *AdminController) BulkDeleteImages(c *gin.Context) {
	names := c.PostFormArray("filenames")
	if len(names) == 0 {
		ac.Flash(c, session.FlashError, "Select at least one image")
		ac.Back(c, "/admin/images")
		return
	}

	res := ac.images.DeleteMany(c.Request.Context(), token(c), names)
	if res.Succeeded > 0 {
		ac.Flash(c, session.FlashSuccess, fmt.Sprintf("%d images deleted", res.Succeeded))
	}
	if len(res.Failed) > 0 {
		ac.Flash(c, session.FlashError, "Could not delete "+strings.Join(res.Failed, ", "))
	}
	ac.Back(c, "/admin/images")
}
