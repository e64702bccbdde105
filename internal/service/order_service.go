package service

import (
	"context"
	"errors"
	"time"

	"github.com/LUNDWw/Sistemas-oticas/internal/dto"
	"github.com/LUNDWw/Sistemas-oticas/internal/model"
	"github.com/LUNDWw/Sistemas-oticas/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderService interface {
	Create(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateOrderRequest) (*dto.OrderResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]dto.OrderResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type orderService struct {
	repo repository.OrderRepository
}

func NewOrderService(repo repository.OrderRepository) OrderService {
	return &orderService{repo: repo}
}

func (s *orderService) Create(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	total, err := normalizeAmount(req.TotalValue)
	if err != nil {
		return nil, err
	}

	status := req.PaymentStatus
	if status == "" {
		status = model.PaymentStatusPending
	}

	order := &model.Order{
		OSNumber:      req.OSNumber,
		ClientName:    req.ClientName,
		Phone:         req.Phone,
		Store:         req.Store,
		Lab:           req.Lab,
		PaymentStatus: status,
		PaymentMethod: req.PaymentMethod,
		ExamDate:      req.ExamDate,
		DeliveryDate:  req.DeliveryDate,
		TotalValue:    total,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	return orderToResponse(order), nil
}

func (s *orderService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	total, err := normalizeAmount(req.TotalValue)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("ordem", id.String())
		}
		return nil, err
	}

	order.OSNumber = req.OSNumber
	order.ClientName = req.ClientName
	order.Phone = req.Phone
	order.Store = req.Store
	order.Lab = req.Lab
	if req.PaymentStatus != "" {
		order.PaymentStatus = req.PaymentStatus
	}
	order.PaymentMethod = req.PaymentMethod
	order.ExamDate = req.ExamDate
	order.DeliveryDate = req.DeliveryDate
	order.TotalValue = total

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	return orderToResponse(order), nil
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("ordem", id.String())
		}
		return nil, err
	}
	return orderToResponse(order), nil
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) ([]dto.OrderResponse, error) {
	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, *orderToResponse(&orders[i]))
	}
	return out, nil
}

// Delete soft-deletes: the row stays for restore and for history, but leaves
// every listing and aggregate.
func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("ordem", id.String())
		}
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *orderService) Restore(ctx context.Context, id uuid.UUID) error {
	return s.repo.Restore(ctx, id)
}

func (s *orderService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	totalOrders, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.repo.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.CountPending(ctx)
	if err != nil {
		return nil, err
	}
	byMonth, err := s.repo.RevenueByMonth(ctx, 6)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.Recent(ctx, 5)
	if err != nil {
		return nil, err
	}

	sales := make([]dto.MonthlySales, 0, len(byMonth))
	for _, row := range byMonth {
		sales = append(sales, dto.MonthlySales{Month: row.Month, Total: row.Total})
	}
	recentOut := make([]dto.OrderResponse, 0, len(recent))
	for i := range recent {
		recentOut = append(recentOut, *orderToResponse(&recent[i]))
	}

	return &dto.DashboardResponse{
		TotalOrders:   totalOrders,
		TotalRevenue:  revenue,
		PendingOrders: pending,
		SalesByMonth:  sales,
		RecentOrders:  recentOut,
	}, nil
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		ID:            o.ID.String(),
		OSNumber:      o.OSNumber,
		ClientName:    o.ClientName,
		Phone:         o.Phone,
		Store:         o.Store,
		Lab:           o.Lab,
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		ExamDate:      o.ExamDate,
		DeliveryDate:  o.DeliveryDate,
		TotalValue:    o.TotalValue,
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
	}
}
