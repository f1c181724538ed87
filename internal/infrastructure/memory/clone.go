package memory

import "github.com/jhoicas/stockflow/internal/domain/entity"

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	if p.VariantID != nil {
		v := *p.VariantID
		c.VariantID = &v
	}
	return &c
}

func cloneStockIn(d *entity.StockIn) *entity.StockIn {
	c := *d
	c.Lines = append([]entity.StockInLine(nil), d.Lines...)
	return &c
}

func cloneStockOut(d *entity.StockOut) *entity.StockOut {
	c := *d
	c.Lines = append([]entity.StockOutLine(nil), d.Lines...)
	return &c
}

func cloneAdjustment(d *entity.StockAdjustment) *entity.StockAdjustment {
	c := *d
	c.Lines = append([]entity.StockAdjustmentLine(nil), d.Lines...)
	return &c
}

func cloneRequisition(r *entity.Requisition) *entity.Requisition {
	c := *r
	c.VendorID = cloneString(r.VendorID)
	c.PurchaseOrderID = cloneString(r.PurchaseOrderID)
	c.Lines = append([]entity.RequisitionLine(nil), r.Lines...)
	return &c
}

func clonePurchaseOrder(po *entity.PurchaseOrder) *entity.PurchaseOrder {
	c := *po
	c.Lines = append([]entity.PurchaseOrderLine(nil), po.Lines...)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
