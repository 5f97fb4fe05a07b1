package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"goltrip/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxPostMediaBytes = 25 * 1024 * 1024
	maxPostMediaCount = 6
	feedPageSize      = 50
)

// mediaTypeFor classifies an uploaded blob as image or video by content type.
func mediaTypeFor(contentType string) string {
	if strings.HasPrefix(contentType, "video/") {
		return "video"
	}
	return "image"
}

// createPostHandler accepts multipart form data: a "content" text field plus
// zero or more "media" files stored under random keys.
func createPostHandler(c *gin.Context) {
	user, p, ok := getProfileFromContext(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form expected"})
		return
	}
	content := ""
	if vals := form.Value["content"]; len(vals) > 0 {
		content = strings.TrimSpace(vals[0])
	}
	files := form.File["media"]
	if content == "" && len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post needs content or media"})
		return
	}
	if len(files) > maxPostMediaCount {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("too many media files (max %d)", maxPostMediaCount)})
		return
	}

	post := models.FeedPost{
		UserID:         user.ID,
		AuthorName:     p.DisplayName(),
		AuthorImageURL: p.ProfileImageURL,
		Content:        content,
	}
	if err := db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create post"})
		return
	}

	for i, file := range files {
		if file.Size > maxPostMediaBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "media file too large (max 25MB)"})
			return
		}
		ct := file.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "image/") && !strings.HasPrefix(ct, "video/") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported media content type"})
			return
		}
		ext := strings.ToLower(filepath.Ext(file.Filename))
		storePath := fmt.Sprintf("posts/%s%s", uuid.NewString(), ext)
		fullPath := filepath.Join(uploadBaseDir(), storePath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
			return
		}
		if err := c.SaveUploadedFile(file, fullPath); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "media save failed"})
			return
		}
		up := models.Upload{ProfileID: p.ID, FileName: file.Filename, StorePath: storePath, ContentType: ct, Kind: "post"}
		if err := db.Create(&up).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
			return
		}
		media := models.PostMedia{PostID: post.ID, URL: publicURL(storePath), MediaType: mediaTypeFor(ct), Position: i}
		if err := db.Create(&media).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
			return
		}
	}

	var created models.FeedPost
	if err := db.Preload("Likes").Preload("Comments").Preload("Media").First(&created, post.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reload failed"})
		return
	}
	c.JSON(http.StatusCreated, feedPostJSON(&created, user.ID))
}

func feedPostJSON(post *models.FeedPost, viewerID uint) gin.H {
	liked := false
	for _, l := range post.Likes {
		if l.UserID == viewerID {
			liked = true
			break
		}
	}
	comments := make([]gin.H, 0, len(post.Comments))
	for _, cm := range post.Comments {
		comments = append(comments, gin.H{
			"id":             cm.ID,
			"user_id":        cm.UserID,
			"user_name":      cm.UserName,
			"user_image_url": cm.UserImageURL,
			"comment":        cm.Comment,
			"created_at":     cm.CreatedAt,
		})
	}
	media := make([]gin.H, 0, len(post.Media))
	for _, m := range post.Media {
		media = append(media, gin.H{"url": m.URL, "media_type": m.MediaType, "position": m.Position})
	}
	return gin.H{
		"id":               post.ID,
		"user_id":          post.UserID,
		"author_name":      post.AuthorName,
		"author_image_url": post.AuthorImageURL,
		"content":          post.Content,
		"created_at":       post.CreatedAt,
		"like_count":       len(post.Likes),
		"liked_by_me":      liked,
		"comments":         comments,
		"media":            media,
	}
}

// listFeedHandler returns the newest posts first.
func listFeedHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	limit := feedPageSize
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	var posts []models.FeedPost
	q := db.Preload("Likes").Preload("Comments", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at asc")
	}).Preload("Media", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position asc")
	}).Order("created_at desc").Limit(limit)
	if err := q.Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load feed"})
		return
	}
	out := make([]gin.H, 0, len(posts))
	for i := range posts {
		out = append(out, feedPostJSON(&posts[i], user.ID))
	}
	c.JSON(http.StatusOK, gin.H{"posts": out})
}

// toggleLikeHandler likes the post if the caller hasn't liked it yet,
// otherwise removes the like.
func toggleLikeHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	var post models.FeedPost
	if err := db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	var existing models.PostLike
	if err := db.Where("post_id = ? AND user_id = ?", post.ID, user.ID).First(&existing).Error; err == nil {
		if err := db.Delete(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unlike failed"})
			return
		}
	} else {
		like := models.PostLike{PostID: post.ID, UserID: user.ID}
		if err := db.Create(&like).Error; err != nil && !isUniqueConstraintError(err) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "like failed"})
			return
		}
	}
	var count int64
	db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&count)
	liked := false
	if err := db.Where("post_id = ? AND user_id = ?", post.ID, user.ID).First(&models.PostLike{}).Error; err == nil {
		liked = true
	}
	c.JSON(http.StatusOK, gin.H{"post_id": post.ID, "like_count": count, "liked_by_me": liked})
}

func addCommentHandler(c *gin.Context) {
	user, p, ok := getProfileFromContext(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	var post models.FeedPost
	if err := db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	var req struct {
		Comment string `json:"comment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment := models.FeedComment{
		PostID:       post.ID,
		UserID:       user.ID,
		UserName:     p.DisplayName(),
		UserImageURL: p.ProfileImageURL,
		Comment:      strings.TrimSpace(req.Comment),
	}
	if comment.Comment == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment is empty"})
		return
	}
	if err := db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "comment failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":             comment.ID,
		"post_id":        comment.PostID,
		"user_id":        comment.UserID,
		"user_name":      comment.UserName,
		"user_image_url": comment.UserImageURL,
		"comment":        comment.Comment,
		"created_at":     comment.CreatedAt,
	})
}

// deletePostHandler removes a post. Only the author or an administrator may
// delete; likes, comments and media rows cascade.
func deletePostHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	var post models.FeedPost
	if err := db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	role, _ := c.Get("role")
	isAdmin := role == "administrator"
	if post.UserID != user.ID && !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed to delete this post"})
		return
	}
	if err := db.Select("Likes", "Comments", "Media").Delete(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}
