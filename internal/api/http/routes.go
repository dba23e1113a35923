package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/i474232898/farm-dashboard/internal/chat"
	"github.com/i474232898/farm-dashboard/internal/crops"
	"github.com/i474232898/farm-dashboard/internal/market"
	"github.com/i474232898/farm-dashboard/internal/store"
	"github.com/i474232898/farm-dashboard/internal/weather"
	"github.com/i474232898/farm-dashboard/internal/yield"
)

var validate = validator.New()

// Services are the dashboard components the routes delegate to.
type Services struct {
	Crops     *crops.Service
	Weather   *weather.Service
	Market    *market.Table
	Assistant *chat.Assistant
	Predictor *yield.Predictor

	// WeatherTimeout bounds a single weather request.
	WeatherTimeout time.Duration
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, svc Services) {
	v1 := app.Group("/api/v1")

	v1.Get("/crops", func(c *fiber.Ctx) error {
		records := svc.Crops.List()
		return c.JSON(fiber.Map{
			"records": records,
			"summary": crops.Summarize(records),
		})
	})

	v1.Post("/crops", func(c *fiber.Ctx) error {
		var req cropRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rec, records, err := svc.Crops.Add(req.toNewRecord())
		if err != nil {
			if errors.Is(err, crops.ErrValidation) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save crop record")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"record":  rec,
			"records": records,
			"message": "Crop saved!",
		})
	})

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		loc := parseLocationQuery(c)

		ctx := c.UserContext()
		if svc.WeatherTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, svc.WeatherTimeout)
			defer cancel()
		}

		snapshot, report, err := svc.Weather.Report(ctx, loc)
		if err != nil {
			code := fiber.StatusBadGateway
			if errors.Is(err, weather.ErrEmptyCity) {
				code = fiber.StatusBadRequest
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": report,
			})
		}

		return c.JSON(fiber.Map{
			"report":   report,
			"snapshot": snapshot,
		})
	})

	v1.Get("/weather/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshots, err := svc.Weather.GetRange(req.Location, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
		}

		return c.JSON(fiber.Map{
			"location":  req.Location,
			"from":      req.From,
			"to":        req.To,
			"snapshots": snapshots,
		})
	})

	v1.Get("/market/prices", func(c *fiber.Ctx) error {
		rows := svc.Market.Prices(c.Query("crop"))
		return c.JSON(fiber.Map{
			"prices": rows,
			"chart":  market.Chart(rows),
		})
	})

	v1.Post("/chat", func(c *fiber.Ctx) error {
		var req chatRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		answer, err := svc.Assistant.Ask(c.UserContext(), req.Question)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(answer)
	})

	v1.Post("/yield/predict", func(c *fiber.Ctx) error {
		var req predictRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		prediction, err := svc.Predictor.Predict(req.Crop, *req.Area)
		switch {
		case errors.Is(err, yield.ErrInsufficientData):
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, yield.ErrInvalidArea):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "failed to predict yield")
		}
		return c.JSON(prediction)
	})
}

// cropRequest is the body of POST /crops.
type cropRequest struct {
	Name          string  `json:"name" validate:"required"`
	Area          float64 `json:"area" validate:"gte=0"`
	ExpectedYield float64 `json:"expected_yield" validate:"gte=0"`
}

func (r cropRequest) toNewRecord() crops.NewRecord {
	return crops.NewRecord{
		Name:          r.Name,
		Area:          r.Area,
		ExpectedYield: r.ExpectedYield,
	}
}

type chatRequest struct {
	Question string `json:"question"`
}

type predictRequest struct {
	Crop string   `json:"crop"`
	Area *float64 `json:"area" validate:"required,gte=0"`
}

// parseLocationQuery copies the query values: the location outlives the
// request in the snapshot cache, and Fiber reuses the request buffer.
func parseLocationQuery(c *fiber.Ctx) weather.Location {
	return weather.Location{
		City:    utils.CopyString(c.Query("city")),
		Country: utils.CopyString(c.Query("country")),
	}
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Location weather.Location
	From     time.Time `validate:"required"`
	To       time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	h.Location = parseLocationQuery(c)
	if h.Location.City == "" {
		return errors.New("city query parameter is required")
	}

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
