package handlers

import "github.com/gofiber/fiber/v2"

// success writes the standard response envelope.
func success(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}
