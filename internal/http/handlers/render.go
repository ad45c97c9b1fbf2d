package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if rid, ok := c.Locals("requestid").(string); ok {
		data["RequestID"] = rid
	}
	return c.Render(tmpl, data)
}

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// formatINR renders a price the way Indian listings print it, with lakh
// and crore grouping.
func formatINR(v float64) string {
	return inrPrinter.Sprintf("₹%v", number.Decimal(v, number.MaxFractionDigits(0)))
}
