package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	// Shop
	&Pet{},
	&Customer{},
	&Order{},
	&OrderItem{},
	&Appointment{},
	&Review{},
	&Inquiry{},
}
