package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidStatus       = errors.New("invalid service order status")
	ErrInvalidRepairStatus = errors.New("invalid repair status")
	ErrInvalidRepairResult = errors.New("invalid repair result")
	ErrInvalidProductType  = errors.New("invalid product type")
	ErrInvalidEnterprise   = errors.New("invalid enterprise")
)

// Status is the workshop-side lifecycle of a service order.
type Status string

const (
	StatusEntered   Status = "entered"
	StatusEvaluated Status = "evaluated"
	StatusOrderPart Status = "order_part"
	StatusRepaired  Status = "repaired"
	StatusDelivered Status = "delivered"
)

func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(v)))
	switch s {
	case StatusEntered, StatusEvaluated, StatusOrderPart, StatusRepaired, StatusDelivered:
		return s, nil
	}
	return "", ErrInvalidStatus
}

// RepairStatus tracks the customer's answer to the estimate.
type RepairStatus string

const (
	RepairStatusEntered     RepairStatus = "entered"
	RepairStatusWaiting     RepairStatus = "waiting"
	RepairStatusApproved    RepairStatus = "approved"
	RepairStatusDisapproved RepairStatus = "disapproved"
)

func ParseRepairStatus(v string) (RepairStatus, error) {
	s := RepairStatus(strings.ToLower(strings.TrimSpace(v)))
	switch s {
	case RepairStatusEntered, RepairStatusWaiting, RepairStatusApproved, RepairStatusDisapproved:
		return s, nil
	}
	return "", ErrInvalidRepairStatus
}

// RepairResult is the technician's verdict. The zero value means none yet.
type RepairResult string

const (
	RepairResultNone          RepairResult = ""
	RepairResultRepair        RepairResult = "repair"
	RepairResultUnrepaired    RepairResult = "unrepaired"
	RepairResultNoDefectFound RepairResult = "no_defect_found"
)

// ParseRepairResult accepts the three verdicts; blank input is rejected.
func ParseRepairResult(v string) (RepairResult, error) {
	r := RepairResult(strings.ToLower(strings.TrimSpace(v)))
	switch r {
	case RepairResultRepair, RepairResultUnrepaired, RepairResultNoDefectFound:
		return r, nil
	}
	return "", ErrInvalidRepairResult
}

type ProductType string

const (
	ProductTV            ProductType = "tv"
	ProductRemoteControl ProductType = "remote_control"
	ProductSound         ProductType = "sound"
	ProductSoundBox      ProductType = "sound_box"
	ProductMicrowave     ProductType = "microwave"
)

func ParseProductType(v string) (ProductType, error) {
	p := ProductType(strings.ToLower(strings.TrimSpace(v)))
	switch p {
	case ProductTV, ProductRemoteControl, ProductSound, ProductSoundBox, ProductMicrowave:
		return p, nil
	}
	return "", ErrInvalidProductType
}

// Enterprise is the account an order is billed or insured under.
type Enterprise string

const (
	EnterpriseParticular       Enterprise = "particular"
	EnterpriseParticularColeta Enterprise = "particular_coleta"
	EnterpriseCocel            Enterprise = "cocel"
	EnterpriseTectoy           Enterprise = "tectoy"
	EnterpriseGarantech        Enterprise = "garantech"
	EnterpriseSVA              Enterprise = "sva"
	EnterpriseLenox            Enterprise = "lenox"
	EnterpriseSeguradora       Enterprise = "seguradora"
	EnterpriseCCE              Enterprise = "cce"
	EnterpriseGarantiaDudony   Enterprise = "garantia_dudony"
	EnterpriseGarantiaRomera   Enterprise = "garantia_romera"
	EnterpriseLuizaSeg         Enterprise = "luizaseg"
	EnterpriseGarantiaAssurant Enterprise = "garantia_assurant"
	EnterpriseRomera           Enterprise = "romera"
	EnterpriseSIS              Enterprise = "sis"
	EnterprisePhilcoBritania   Enterprise = "philco_britania"
	EnterpriseCardif           Enterprise = "cardif"
	EnterpriseMapfre           Enterprise = "mapfre"
	EnterpriseCentury          Enterprise = "century"
	EnterpriseCopel            Enterprise = "copel"
	EnterpriseAssurant         Enterprise = "assurant"
	EnterpriseGarantiaAXA      Enterprise = "garantia_axa"
)

var enterprises = []Enterprise{
	EnterpriseParticular, EnterpriseParticularColeta, EnterpriseCocel, EnterpriseTectoy,
	EnterpriseGarantech, EnterpriseSVA, EnterpriseLenox, EnterpriseSeguradora, EnterpriseCCE,
	EnterpriseGarantiaDudony, EnterpriseGarantiaRomera, EnterpriseLuizaSeg, EnterpriseGarantiaAssurant,
	EnterpriseRomera, EnterpriseSIS, EnterprisePhilcoBritania, EnterpriseCardif, EnterpriseMapfre,
	EnterpriseCentury, EnterpriseCopel, EnterpriseAssurant, EnterpriseGarantiaAXA,
}

// Enterprises lists every accepted enterprise code.
func Enterprises() []Enterprise {
	out := make([]Enterprise, len(enterprises))
	copy(out, enterprises)
	return out
}

func ParseEnterprise(v string) (Enterprise, error) {
	e := Enterprise(strings.ToLower(strings.TrimSpace(v)))
	for _, known := range enterprises {
		if e == known {
			return e, nil
		}
	}
	return "", ErrInvalidEnterprise
}
