package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/skycast-app/skycast/internal/localename"
	"github.com/skycast-app/skycast/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, pipeline *weather.Pipeline) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		req, err := parseWeatherQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		view, err := pipeline.Refresh(c.UserContext(), req)
		if err != nil {
			if errors.Is(err, weather.ErrUnavailable) {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error":   true,
					"message": "weather data unavailable: no network and no cached snapshot",
				})
			}
			if errors.Is(err, weather.ErrEmptyCity) {
				return fiber.NewError(fiber.StatusBadRequest, "city is required")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
		}

		return c.JSON(view)
	})

	v1.Get("/favorites", func(c *fiber.Ctx) error {
		favorites, err := pipeline.Favorites()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list favorites")
		}
		if favorites == nil {
			favorites = []string{}
		}
		return c.JSON(fiber.Map{"favorites": favorites})
	})

	v1.Post("/favorites", func(c *fiber.Ctx) error {
		var body favoriteBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		city := localename.Normalize(body.City)
		if city == "" {
			return fiber.NewError(fiber.StatusBadRequest, "city is required")
		}
		if err := pipeline.AddFavorite(city); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save favorite")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// weatherQuery holds query parameters for the weather endpoint. City is
// optional: when absent the pipeline falls back to the location resolver.
type weatherQuery struct {
	City  string
	Force bool
}

type favoriteBody struct {
	City string `json:"city" validate:"required"`
}

func parseWeatherQuery(c *fiber.Ctx) (weather.Request, error) {
	q := weatherQuery{
		City:  c.Query("city"),
		Force: c.QueryBool("force"),
	}

	city := localename.Normalize(q.City)
	if q.City != "" && city == "" {
		return weather.Request{}, errors.New("city must not be blank")
	}

	return weather.Request{City: city, Force: q.Force}, nil
}
