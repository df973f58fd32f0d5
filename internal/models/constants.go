package models

const (
	OrderStatusOpen   = "open"
	OrderStatusClosed = "closed"
	OrderStatusVoided = "voided"

	RoleServer  = "server"
	RoleCook    = "cook"
	RoleHost    = "host"
	RoleManager = "manager"
	RoleBar     = "bartender"

	SegmentChampions   = "Champions"
	SegmentLoyal       = "Loyal Customers"
	SegmentPotential   = "Potential Loyalists"
	SegmentNew         = "New Customers"
	SegmentPromising   = "Promising"
	SegmentNeedAttn    = "Need Attention"
	SegmentAboutSleep  = "About to Sleep"
	SegmentAtRisk      = "At Risk"
	SegmentCannotLose  = "Cannot Lose Them"
	SegmentHibernating = "Hibernating"
	SegmentLost        = "Lost"

	WasteReasonSpoilage = "spoilage"
	WasteReasonPrep     = "prep_error"
	WasteReasonReturn   = "customer_return"
	WasteReasonOverprod = "overproduction"
)
