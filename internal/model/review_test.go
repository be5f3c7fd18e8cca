package model

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReview_MarshalJSON(t *testing.T) {
	productID := uuid.New()
	review := Review{ID: uuid.New(), Title: "Great", Rating: 4, ProductID: productID, UserID: uuid.New()}

	t.Run("bare id", func(t *testing.T) {
		data, err := json.Marshal(review)
		require.NoError(t, err)

		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, productID.String(), out["product"])
		assert.Equal(t, "Great", out["title"])
	})

	t.Run("with product summary", func(t *testing.T) {
		withInfo := review
		withInfo.ProductInfo = &ProductSummary{ID: productID, Title: "Lamp", Description: "A desk lamp"}
		data, err := json.Marshal(&withInfo)
		require.NoError(t, err)

		var out struct {
			Title   string         `json:"title"`
			Rating  int            `json:"rating"`
			Product ProductSummary `json:"product"`
		}
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, "Great", out.Title)
		assert.Equal(t, 4, out.Rating)
		assert.Equal(t, ProductSummary{ID: productID, Title: "Lamp", Description: "A desk lamp"}, out.Product)
	})
}
