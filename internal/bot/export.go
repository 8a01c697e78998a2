package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hotelbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"
)

// handleExport выгружает историю бронирований в Excel и отправляет файлом.
func (b *Bot) handleExport(ctx context.Context, chatID int64) {
	if !b.auth.IsAuthenticated() {
		b.sendMessage(chatID, "🔐 Для выгрузки нужно войти в аккаунт: /login")
		return
	}

	filePath, err := b.exportToExcel(ctx)
	if err != nil {
		b.logger.Error().Err(err).Msg("Export failed")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(filePath))
	doc.Caption = "📊 История ваших бронирований"
	if _, err := b.tg.Send(doc); err != nil {
		b.logger.Error().Err(err).Msg("Failed to send export file")
		b.sendMessage(chatID, "❌ Не удалось отправить файл. Попробуйте позже.")
	}
}

// exportToExcel создает Excel файл с историей бронирований
func (b *Bot) exportToExcel(ctx context.Context) (string, error) {
	if err := os.MkdirAll(b.config.Exports.Path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	bookings, err := b.bookings.MyBookings(ctx)
	if err != nil {
		// Зеркало выручает, когда API недоступен
		bookings, err = b.bookings.MirroredBookings(ctx)
		if err != nil {
			return "", fmt.Errorf("error getting bookings: %v", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Бронирования"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("История бронирований на %s", time.Now().Format("02.01.2006")))
	_ = f.MergeCell(sheetName, "A1", "G1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headers := []string{"№", "Номер", "Название", "Заезд", "Выезд", "Ночей", "Стоимость, ₽", "Статус"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	_ = f.SetCellStyle(sheetName, "A2", "H2", headerStyle)

	for row, booking := range bookings {
		values := []interface{}{
			booking.ID,
			booking.Room.Number,
			booking.Room.Name,
			booking.CheckIn.Format("02.01.2006"),
			booking.CheckOut.Format("02.01.2006"),
			booking.Nights(),
			booking.TotalPrice,
			statusLabel(booking.Status),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+3)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "H", 16)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	filePath := filepath.Join(b.config.Exports.Path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	b.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("Excel file created")
	return filePath, nil
}

func statusLabel(status string) string {
	switch status {
	case models.StatusConfirmed:
		return "Подтверждено"
	case models.StatusCancelled:
		return "Отменено"
	case models.StatusPending:
		return "Ожидает"
	default:
		return status
	}
}
