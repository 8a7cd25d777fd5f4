package links

import (
	"fmt"
	"strings"
)

type Service struct {
	baseURL string
}

func NewService(baseURL string) *Service {
	return &Service{baseURL: strings.TrimRight(baseURL, "/")}
}

// ShortURL строит короткую ссылку на рецепт; её обслуживает Handler.
func (s *Service) ShortURL(recipeID int64) string {
	return fmt.Sprintf("%s/s/%d/", s.baseURL, recipeID)
}

// RecipePath — путь страницы рецепта во фронтенде, куда ведёт короткая ссылка.
func RecipePath(recipeID int64) string {
	return fmt.Sprintf("/recipes/%d/", recipeID)
}
