package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/domain"
	"github.com/jhoicas/retail-ledger/internal/domain/entity"
)

// SaleUseCase registra y revierte ventas descontando/reponiendo inventario en una sola transacción.
type SaleUseCase struct {
	txRunner TxRunner
	receipts ReceiptGenerator
	opts     Options
}

// NewSaleUseCase construye el caso de uso. receipts puede ser nil si no se exponen comprobantes.
func NewSaleUseCase(txRunner TxRunner, receipts ReceiptGenerator, opts Options) *SaleUseCase {
	return &SaleUseCase{txRunner: txRunner, receipts: receipts, opts: opts.withDefaults()}
}

// CommitSale crea la venta, sus líneas y por cada línea descuenta stock y registra un OUT/SALE.
// Si llega IdempotencyKey y ya existe una venta con esa clave, la devuelve sin mutar nada.
func (uc *SaleUseCase) CommitSale(ctx context.Context, actor string, in dto.CommitSaleRequest) (*dto.SaleResponse, error) {
	if err := validateSale(actor, in); err != nil {
		return nil, err
	}

	now := uc.opts.Now()
	var sale *entity.Sale
	replayed := false

	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		if in.IdempotencyKey != "" {
			existing, err := repos.Sales.GetByIdempotencyKey(ctx, in.IdempotencyKey)
			if err != nil {
				return err
			}
			if existing != nil {
				if existing.StoreID != in.StoreID {
					return domain.Conflict("idempotency key %q ya usada en otra tienda", in.IdempotencyKey)
				}
				sale, replayed = existing, true
				return nil
			}
		}

		store, err := repos.Stores.GetByID(ctx, in.StoreID)
		if err != nil {
			return err
		}
		if store == nil {
			return domain.NotFound("tienda %s", in.StoreID)
		}
		if !store.Active {
			return domain.Invalid("tienda %s inactiva", in.StoreID)
		}
		for _, item := range in.Items {
			product, err := repos.Products.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.NotFound("producto %s", item.ProductID)
			}
			if !product.Active {
				return domain.Invalid("producto %s inactivo", item.ProductID)
			}
		}

		// 1) Cabecera con totales y número de factura
		sale = buildSale(in, actor, uc.opts.Numbers.Next(uc.opts.InvoicePrefix, now), now)
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		// 2) Líneas
		if err := repos.Sales.CreateItems(ctx, sale.Items); err != nil {
			return err
		}
		// 3) Stock + libro por línea
		for _, item := range sale.Items {
			if _, err := moveStock(ctx, repos, stockChange{
				ProductID: item.ProductID,
				StoreID:   sale.StoreID,
				Delta:     -item.Quantity,
				RefType:   entity.ReferenceSale,
				RefID:     sale.ID,
				Actor:     actor,
				Notes:     "venta " + sale.InvoiceNumber,
				Now:       now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// Dos reintentos simultáneos con la misma clave: el perdedor choca con el índice único.
		if in.IdempotencyKey != "" && errors.Is(err, domain.ErrConflict) {
			if existing, rerr := uc.saleByKey(ctx, in.IdempotencyKey); rerr == nil && existing != nil && existing.StoreID == in.StoreID {
				resp := toSaleResponse(existing)
				resp.Replayed = true
				return resp, nil
			}
		}
		return nil, err
	}
	resp := toSaleResponse(sale)
	resp.Replayed = replayed
	return resp, nil
}

func (uc *SaleUseCase) saleByKey(ctx context.Context, key string) (*entity.Sale, error) {
	var sale *entity.Sale
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		sale, err = repos.Sales.GetByIdempotencyKey(ctx, key)
		return err
	})
	return sale, err
}

// ReverseSale elimina una venta reponiendo el stock que la venta descontó según el libro.
// Falla con ErrConflict si alguna devolución referencia la venta.
func (uc *SaleUseCase) ReverseSale(ctx context.Context, actor, saleID string) error {
	if actor == "" {
		return domain.Invalid("actor requerido")
	}
	if saleID == "" {
		return domain.Invalid("sale_id requerido")
	}
	now := uc.opts.Now()

	return uc.txRunner.Run(ctx, func(repos Repos) error {
		sale, err := repos.Sales.GetByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.NotFound("venta %s", saleID)
		}
		hasReturns, err := repos.Returns.ExistsForSale(ctx, saleID)
		if err != nil {
			return err
		}
		if hasReturns {
			return domain.Conflict("la venta %s tiene devoluciones asociadas", sale.InvoiceNumber)
		}

		// Pendiente por producto = Σ OUT − Σ IN registrados para esta venta.
		movs, err := repos.Movements.ListByReference(ctx, entity.ReferenceSale, sale.ID)
		if err != nil {
			return err
		}
		outstanding := make(map[string]int64)
		for _, m := range movs {
			if !m.AffectsStock {
				continue
			}
			if m.Direction == entity.DirectionDecrease {
				outstanding[m.ProductID] += m.Quantity
			} else {
				outstanding[m.ProductID] -= m.Quantity
			}
		}

		for _, item := range sale.Items {
			restock := min(item.Quantity, outstanding[item.ProductID])
			if restock <= 0 {
				continue
			}
			outstanding[item.ProductID] -= restock
			if _, err := moveStock(ctx, repos, stockChange{
				ProductID: item.ProductID,
				StoreID:   sale.StoreID,
				Delta:     restock,
				RefType:   entity.ReferenceSale,
				RefID:     sale.ID,
				Actor:     actor,
				Notes:     "reverso por eliminación de venta " + sale.InvoiceNumber,
				Now:       now,
			}); err != nil {
				return err
			}
		}
		return repos.Sales.Delete(ctx, sale.ID)
	})
}

// GetSale obtiene una venta con sus líneas.
func (uc *SaleUseCase) GetSale(ctx context.Context, saleID string) (*dto.SaleResponse, error) {
	var sale *entity.Sale
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		sale, err = repos.Sales.GetByID(ctx, saleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NotFound("venta %s", saleID)
	}
	return toSaleResponse(sale), nil
}

// Receipt genera el comprobante PDF de la venta. Devuelve los bytes y el número de factura.
func (uc *SaleUseCase) Receipt(ctx context.Context, saleID string) ([]byte, string, error) {
	if uc.receipts == nil {
		return nil, "", fmt.Errorf("generador de comprobantes no configurado")
	}
	var (
		sale     *entity.Sale
		store    *entity.Store
		products = make(map[string]*entity.Product)
	)
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		var err error
		sale, err = repos.Sales.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.NotFound("venta %s", saleID)
		}
		if store, err = repos.Stores.GetByID(ctx, sale.StoreID); err != nil {
			return err
		}
		if store == nil {
			store = &entity.Store{ID: sale.StoreID}
		}
		for _, item := range sale.Items {
			if _, ok := products[item.ProductID]; ok {
				continue
			}
			p, err := repos.Products.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if p != nil {
				products[item.ProductID] = p
			}
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.receipts.GenerateSaleReceipt(ctx, sale, store, products)
	if err != nil {
		return nil, "", err
	}
	return pdf, sale.InvoiceNumber, nil
}

func validateSale(actor string, in dto.CommitSaleRequest) error {
	if actor == "" {
		return domain.Invalid("actor requerido")
	}
	if in.StoreID == "" {
		return domain.Invalid("store_id requerido")
	}
	if len(in.Items) == 0 {
		return domain.Invalid("la venta requiere al menos un ítem")
	}
	for i, item := range in.Items {
		if item.ProductID == "" {
			return domain.Invalid("ítem %d: product_id requerido", i)
		}
		if item.Quantity <= 0 {
			return domain.Invalid("ítem %d: quantity debe ser mayor que 0", i)
		}
		if item.UnitPrice == nil {
			return domain.Invalid("ítem %d: unit_price requerido", i)
		}
		if item.UnitPrice.IsNegative() {
			return domain.Invalid("ítem %d: unit_price negativo", i)
		}
		if item.Discount.IsNegative() {
			return domain.Invalid("ítem %d: discount negativo", i)
		}
		gross := item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity))
		if item.Discount.GreaterThan(gross) {
			return domain.Invalid("ítem %d: discount mayor que el importe de la línea", i)
		}
	}
	return nil
}

func buildSale(in dto.CommitSaleRequest, actor, invoiceNumber string, now time.Time) *entity.Sale {
	sale := &entity.Sale{
		ID:             uuid.New().String(),
		InvoiceNumber:  invoiceNumber,
		StoreID:        in.StoreID,
		CustomerName:   in.CustomerName,
		PaymentMethod:  in.PaymentMethod,
		Notes:          in.Notes,
		IdempotencyKey: in.IdempotencyKey,
		CreatedBy:      actor,
		CreatedAt:      now,
	}
	for _, it := range in.Items {
		item := &entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: *it.UnitPrice,
			Discount:  it.Discount,
		}
		gross := item.Gross()
		item.LineTotal = gross.Sub(item.Discount)
		sale.Subtotal = sale.Subtotal.Add(gross)
		sale.DiscountTotal = sale.DiscountTotal.Add(item.Discount)
		sale.Items = append(sale.Items, item)
	}
	sale.Total = sale.Subtotal.Sub(sale.DiscountTotal)
	return sale
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            s.ID,
		InvoiceNumber: s.InvoiceNumber,
		StoreID:       s.StoreID,
		CustomerName:  s.CustomerName,
		PaymentMethod: s.PaymentMethod,
		Notes:         s.Notes,
		Subtotal:      s.Subtotal,
		DiscountTotal: s.DiscountTotal,
		Total:         s.Total,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		Items:         make([]dto.SaleItemResponse, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
			LineTotal: it.LineTotal,
		})
	}
	return resp
}
