package scenario

import "goalhk/internal/domain/entity"

const (
	CategoryHomeRepair   = "HOME_REPAIR"
	CategorySocial       = "SOCIAL"
	CategoryConstruction = "CONSTRUCTION"
	CategoryCare         = "CARE"
	CategoryGeneral      = "GENERAL"
)

type Data struct {
	Category string
	Modes    []entity.ServiceMode
	Steps    []entity.TaskStep
}

// Generate returns freshly allocated modes and steps for key. Scenarios
// without a dedicated table fall back to the generic two-mode flow.
func Generate(key Key) Data {
	switch key {
	case PipeBurst:
		return Data{
			Category: CategoryHomeRepair,
			Modes: []entity.ServiceMode{
				{ID: "m1", Name: "視像急救 (AR)", Description: "專家透過鏡頭指導止水", EstimatedPrice: "$80", EstimatedTime: "即時", Icon: "Video"},
				{ID: "m2", Name: "附近師傅 (快)", Description: "最近的持牌水喉匠", EstimatedPrice: "$600-$800", EstimatedTime: "20分鐘", Icon: "Zap"},
				{ID: "m3", Name: "工程公司 (保養)", Description: "正規公司，含一個月保養", EstimatedPrice: "$1200+", EstimatedTime: "預約", Icon: "Briefcase"},
			},
			Steps: steps(
				step("s1", "AR 診斷災情", entity.ActionOpenCamera),
				step("s2", "配對師傅", ""),
				step("s3", "確認報價 (含零件)", ""),
				step("s4", "上門維修", ""),
				step("s5", "驗收放款", ""),
			),
		}
	case EatBuddy:
		return Data{
			Category: CategorySocial,
			Modes: []entity.ServiceMode{
				{ID: "m1", Name: "吹水朋友", Description: "輕鬆聊天，AA制", EstimatedPrice: "$0 (請客)", EstimatedTime: "15分鐘", Icon: "Coffee"},
				{ID: "m2", Name: "美食導遊", Description: "帶你去食好西", EstimatedPrice: "$200/hr", EstimatedTime: "預約", Icon: "Map"},
				{ID: "m3", Name: "商務飯局", Description: "形象得體，懂餐桌禮儀", EstimatedPrice: "$500/hr", EstimatedTime: "預約", Icon: "Tie"},
			},
			Steps: steps(
				step("s1", "確認餐廳/口味", ""),
				step("s2", "選擇伴侶", ""),
				step("s3", "安全認證 (KYC)", entity.ActionVerifyID),
				step("s4", "見面用餐", ""),
				step("s5", "互評", ""),
			),
		}
	case Renovation:
		return Data{
			Category: CategoryConstruction,
			Modes: []entity.ServiceMode{
				{ID: "m1", Name: "局部翻新", Description: "油漆、地板更換", EstimatedPrice: "$5000+", EstimatedTime: "3-5天", Icon: "PaintRoller"},
				{ID: "m2", Name: "全屋裝修 (競價)", Description: "多位師傅同時報價", EstimatedPrice: "$20萬+", EstimatedTime: "2個月", Icon: "Home", IsBidding: true},
				{ID: "m3", Name: "物料直供", Description: "只買料，自己搵人做", EstimatedPrice: "按量", EstimatedTime: "3天", Icon: "Truck"},
			},
			Steps: steps(
				step("s1", "上傳圖則/AR度尺", entity.ActionOpenCamera),
				step("s2", "等待多人報價", ""),
				step("s3", "簽署智能合約", ""),
				step("s4", "分階段施工", ""),
				step("s5", "完工保養", ""),
			),
		}
	case DoctorEscort:
		return Data{
			Category: CategoryCare,
			Modes: []entity.ServiceMode{
				{ID: "m1", Name: "鄰里互助", Description: "附近街坊，簡單陪伴", EstimatedPrice: "$100/次", EstimatedTime: "即時", Icon: "Users"},
				{ID: "m2", Name: "專業看護", Description: "持牌護理員，可協助如廁", EstimatedPrice: "$180/hr", EstimatedTime: "30分鐘", Icon: "Heart"},
				{ID: "m3", Name: "專車接送", Description: "連人帶車點對點", EstimatedPrice: "$400/次", EstimatedTime: "預約", Icon: "Car"},
			},
			Steps: steps(
				step("s1", "確認覆診資料", ""),
				step("s2", "開啟保險盾", entity.ActionActivateInsurance),
				step("s3", "配對專員", ""),
				step("s4", "全程實時追蹤", ""),
				step("s5", "安全到家確認", ""),
			),
		}
	default:
		return Data{
			Category: CategoryGeneral,
			Modes: []entity.ServiceMode{
				{ID: "m1", Name: "快速協助", Description: "最快到達", EstimatedPrice: "議價", EstimatedTime: "30分鐘", Icon: "Zap"},
				{ID: "m2", Name: "專業服務", Description: "高評分保證", EstimatedPrice: "市價", EstimatedTime: "60分鐘", Icon: "Star"},
			},
			Steps: steps(
				step("s1", "確認需求", ""),
				step("s2", "尋找幫手", ""),
				step("s3", "執行任務", ""),
				step("s4", "完成", ""),
			),
		}
	}
}

func step(id, title string, action entity.StepAction) entity.TaskStep {
	return entity.TaskStep{ID: id, Title: title, Status: entity.StepPending, Action: action}
}

// steps marks the first step active.
func steps(s ...entity.TaskStep) []entity.TaskStep {
	if len(s) > 0 {
		s[0].Status = entity.StepActive
	}
	return s
}
