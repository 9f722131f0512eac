package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

// CategoriesController serves the JSON category endpoints.
type CategoriesController struct {
	categories CategoryStore
}

func NewCategoriesController(categories CategoryStore) *CategoriesController {
	return &CategoriesController{categories: categories}
}

// GetAllCategories returns every category
// GET /api/categories
func (cc *CategoriesController) GetAllCategories(c *gin.Context) {
	categories, err := cc.categories.All(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "get all categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategory returns a single category
// GET /api/categories/:id
func (cc *CategoriesController) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := cc.categories.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "category", "get category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory creates a new category
// POST /api/categories
func (cc *CategoriesController) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	category := &entities.Category{Name: req.Name}
	if err := cc.categories.Create(c.Request.Context(), category); err != nil {
		respondInternalError(c, err, "create category")
		return
	}
	respondCreated(c, category)
}

// GetCategoryBooks lists the books attached to a category
// GET /api/categories/:id/books
func (cc *CategoriesController) GetCategoryBooks(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	books, err := cc.categories.BooksFor(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "category", "get category books")
		return
	}
	c.JSON(http.StatusOK, books)
}
