package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"invoicing-backend/models"
)

const idempotencyHeader = "Idempotency-Key"

// Idempotency processes Idempotency-Key for mutating HTTP methods.
// The first request runs and its response is stored; a replay with the same
// request hash gets the stored response without running the handler again.
func Idempotency(db *gorm.DB, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get(idempotencyHeader))
		if key == "" {
			return c.Next()
		}
		if len(key) > 128 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Idempotency-Key too long"})
		}

		userID := UserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "auth context missing"})
		}

		path := c.OriginalURL() // includes query string
		reqHash := requestHash(method, path, c.Body(), userID)

		// ---- Phase 1: read or create the "pending" record in a short TX
		var (
			existing models.IdempotencyKey
			replay   bool
		)
		err := db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			err := tx.Where("key = ?", key).First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				existing = models.IdempotencyKey{
					Key:         key,
					RequestHash: reqHash,
					Method:      method,
					Path:        path,
					UserID:      userID,
				}
				return tx.Create(&existing).Error
			}
			if err != nil {
				return err
			}

			if existing.RequestHash != reqHash {
				return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
			}
			if existing.ResponseStatus == 0 {
				return fiber.NewError(fiber.StatusConflict, "request with this Idempotency-Key is still in progress")
			}
			replay = true
			return nil
		})
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return fe
			}
			log.Error("idempotency lookup failed", zap.String("key", key), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
		}
		if replay {
			c.Set("Idempotent-Replayed", "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
			return c.Status(existing.ResponseStatus).Send(existing.ResponseBody)
		}

		// The handler runs once for this key.
		if err := c.Next(); err != nil {
			release(db, key, log)
			return err
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			release(db, key, log)
			return nil
		}

		// ---- Phase 2: store the response
		now := time.Now().UTC()
		resp := c.Response().Body()
		blob := make([]byte, len(resp))
		copy(blob, resp)
		err = db.Model(&models.IdempotencyKey{}).
			Where("key = ?", key).
			Updates(map[string]any{
				"response_status": status,
				"response_body":   blob,
				"completed_at":    &now,
			}).Error
		if err != nil {
			// best-effort: don't break the successful response
			log.Warn("idempotency store failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
}

// requestHash is sha256 of method|path|body|user.
func requestHash(method, path string, body []byte, userID string) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{'\n'})
	h.Write([]byte(path))
	h.Write([]byte{'\n'})
	h.Write(body)
	h.Write([]byte{'\n'})
	h.Write([]byte(userID))
	return hex.EncodeToString(h.Sum(nil))
}

// release drops a pending key so a failed request can be retried.
func release(db *gorm.DB, key string, log *zap.Logger) {
	if err := db.Where("key = ? AND response_status = 0", key).Delete(&models.IdempotencyKey{}).Error; err != nil {
		log.Warn("idempotency release failed", zap.String("key", key), zap.Error(err))
	}
}
