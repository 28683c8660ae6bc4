package service

import (
	"context"
	"fmt"
	"time"

	"dormhub.io/repairdesk/internal/entity"
	orderdto "dormhub.io/repairdesk/internal/modules/order/dto"
	orderservice "dormhub.io/repairdesk/internal/modules/order/service"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exportPageSize = 100

type ExportService interface {
	// ExportOrders builds an xlsx workbook of every order matching the
	// filter. The caller owns closing the returned file.
	ExportOrders(ctx context.Context, q orderdto.AdminListOrdersQuery) (*excelize.File, error)
}

type exportService struct {
	orders orderservice.OrderService
	logger *zap.Logger
}

func NewExportService(orders orderservice.OrderService, logger *zap.Logger) ExportService {
	return &exportService{orders: orders, logger: logger}
}

func (s *exportService) ExportOrders(ctx context.Context, q orderdto.AdminListOrdersQuery) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Orders"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}

	headers := []string{"Order ID", "Student", "Building", "Room", "Repair Type", "Description", "Contact Phone", "Status", "Created At", "Completed At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			f.Close()
			return nil, err
		}
	}

	row := 2
	q.Page = 1
	q.PageSize = exportPageSize
	for {
		orders, total, err := s.orders.ListAllOrders(ctx, q)
		if err != nil {
			f.Close()
			return nil, err
		}

		for _, order := range orders {
			if err := s.writeRow(f, sheet, row, order); err != nil {
				f.Close()
				return nil, err
			}
			row++
		}

		if int64(q.Page*q.PageSize) >= total || len(orders) == 0 {
			break
		}
		q.Page++
	}

	s.logger.Info("order export built", zap.Int("rows", row-2))
	return f, nil
}

func (s *exportService) writeRow(f *excelize.File, sheet string, row int, order *entity.RepairOrder) error {
	student := ""
	if order.User != nil {
		student = order.User.Username
		if order.User.RealName != nil && *order.User.RealName != "" {
			student = *order.User.RealName
		}
	}

	completedAt := ""
	if order.CompletedAt != nil {
		completedAt = order.CompletedAt.Format(time.DateTime)
	}

	values := []interface{}{
		order.ID.String(),
		student,
		order.Building,
		order.RoomNumber,
		order.RepairType,
		order.Description,
		order.ContactPhone,
		string(order.Status),
		order.CreatedAt.Format(time.DateTime),
		completedAt,
	}

	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

// FileName names the attachment with the export timestamp.
func FileName(now time.Time) string {
	return fmt.Sprintf("repair-orders-%s.xlsx", now.Format("20060102-150405"))
}
