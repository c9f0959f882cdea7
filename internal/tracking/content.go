package tracking

import (
	"fmt"
	"strings"
	"time"

	"github.com/lojavirtual/marketplace/internal/catalog"
	"github.com/lojavirtual/marketplace/internal/customer"
)

// labelInput is everything the shipping label shows. All of it is resolved
// at generation time so the label never depends on later catalog or
// registration changes.
type labelInput struct {
	Code     string
	OrderID  int64
	LineID   int64
	Status   string
	Product  *catalog.Product
	Quantity int
	Supplier *catalog.Supplier
	Customer *customer.Customer
	Address  *customer.Address
	IssuedAt time.Time
}

func buildContent(in labelInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CODIGO: %s\n", in.Code)
	fmt.Fprintf(&b, "PEDIDO: %d ITEM: %d SITUACAO: %s\n", in.OrderID, in.LineID, in.Status)
	fmt.Fprintf(&b, "EMITIDO: %s\n", in.IssuedAt.Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "PRODUTO: %s (x%d)\n", in.Product.Name, in.Quantity)
	if in.Product.Description != "" {
		fmt.Fprintf(&b, "DESCRICAO: %s\n", in.Product.Description)
	}
	fmt.Fprintf(&b, "FORNECEDOR: %s\n", in.Supplier.Name)
	fmt.Fprintf(&b, "CNPJ: %s - %s\n", FormatCNPJ(in.Supplier.TaxID), in.Supplier.State)
	if in.Supplier.Phone != "" {
		fmt.Fprintf(&b, "FONE FORNECEDOR: %s\n", in.Supplier.Phone)
	}
	fmt.Fprintf(&b, "DESTINATARIO: %s\n", in.Customer.Name)
	fmt.Fprintf(&b, "CPF: %s\n", FormatCPF(in.Customer.NationalID))
	fmt.Fprintf(&b, "TELEFONE: %s\n", in.Customer.Phone)
	fmt.Fprintf(&b, "ENDERECO: %s\n", in.Address.Full())
	fmt.Fprintf(&b, "RASTREIO: /api/v1/tracking/%s/image", in.Code)
	return b.String()
}

// FormatCPF renders an 11 digit CPF as XXX.XXX.XXX-XX. Anything else is
// returned unchanged.
func FormatCPF(digits string) string {
	if len(digits) != 11 {
		return digits
	}
	return digits[:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:]
}

// FormatCNPJ renders a 14 digit CNPJ as XX.XXX.XXX/XXXX-XX. Anything else
// is returned unchanged.
func FormatCNPJ(digits string) string {
	if len(digits) != 14 {
		return digits
	}
	return digits[:2] + "." + digits[2:5] + "." + digits[5:8] + "/" + digits[8:12] + "-" + digits[12:]
}
