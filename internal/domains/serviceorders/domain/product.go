package domain

import "strings"

// Product is the item left at the shop, owned by exactly one service order.
type Product struct {
	Brand        Brand
	Model        Model
	SerialNumber SerialNumber
	Defect       Defect
	Accessories  string
	Type         ProductType
	Location     string
}

// NewProduct validates the item description. Brand and defect are optional.
func NewProduct(brand, model, serial, defect, accessories string, productType ProductType) (Product, error) {
	var p Product
	if err := p.UpdateProduct(brand, model, serial, defect, accessories, productType); err != nil {
		return Product{}, err
	}
	return p, nil
}

// UpdateProduct replaces every descriptive field. The shelf location is kept.
func (p *Product) UpdateProduct(brand, model, serial, defect, accessories string, productType ProductType) error {
	var (
		b   Brand
		d   Defect
		err error
	)
	if strings.TrimSpace(brand) != "" {
		if b, err = NewBrand(brand); err != nil {
			return err
		}
	}
	m, err := NewModel(model)
	if err != nil {
		return err
	}
	s, err := NewSerialNumber(serial)
	if err != nil {
		return err
	}
	if strings.TrimSpace(defect) != "" {
		if d, err = NewDefect(defect); err != nil {
			return err
		}
	}
	if _, err := ParseProductType(string(productType)); err != nil {
		return err
	}
	p.Brand = b
	p.Model = m
	p.SerialNumber = s
	p.Defect = d
	p.Accessories = strings.TrimSpace(accessories)
	p.Type = productType
	return nil
}
