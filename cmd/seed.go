package cmd

import (
	"errors"
	"fmt"

	"donlouis-backend/config"
	"donlouis-backend/models"
	"donlouis-backend/services"

	"github.com/jaswdr/faker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type seedItem struct {
	Name        string
	Price       float64
	Description string
}

type seedCategory struct {
	Name  string
	Items []seedItem
}

var menuSeed = []seedCategory{
	{Name: "Appetizers", Items: []seedItem{
		{"Fries", 2.50, "Golden crispy fries"},
		{"Calamari Rings", 5.50, "Served with tartar sauce"},
		{"Mozzarella Sticks", 4.50, "Served with marinara"},
		{"Dynamite Shrimps", 7.50, "Spicy creamy sauce"},
		{"Crispy Tenders", 5.00, "Hand-breaded chicken"},
		{"Appetizer Combo", 18.00, "A mix of all our favorites"},
		{"Hummus", 3.50, "Traditional recipe"},
		{"Kebbe Ball", 1.20, "Fried meat ball"},
		{"Rakat Cheese", 0.90, "Crispy cheese roll"},
		{"Sambousik Meat", 0.90, "Fried meat pastry"},
	}},
	{Name: "Salads", Items: []seedItem{
		{"Caesar Salad", 7.50, "Lettuce, parmesan, croutons"},
		{"Season Salad", 5.00, "Fresh seasonal vegetables"},
		{"Fattouch", 5.00, "Traditional Lebanese salad"},
		{"Tabbouleh", 5.00, "Parsley, tomato, onion"},
	}},
	{Name: "Bel Franje", Items: []seedItem{
		{"Char-Grilled Chicken", 4.25, "Juicy marinated breast"},
		{"Francisco Chicken", 6.50, "Chicken, corn, cheese, mayo"},
		{"Philly Steak", 7.00, "Steak, onions, cheese, peppers"},
		{"Rosto", 5.50, "Roast beef sandwich"},
		{"Makanek", 4.50, "Lebanese sausages"},
		{"Soujouk", 4.50, "Spicy sausages"},
		{"Halloumi Pesto", 5.50, "Grilled halloumi with pesto"},
		{"Turkey Cheese", 4.00, "Classic deli style"},
		{"Crispy Chicken", 6.50, "Fried chicken breast"},
		{"Chinese Chicken", 6.50, "Asian style chicken mix"},
	}},
	{Name: "Speciality", Items: []seedItem{
		{"Special Shrimp", 6.50, "Chef special sauce"},
		{"Merguez Provolone", 7.00, "Spicy sausage with cheese"},
		{"Aashtarout", 6.00, "House speciality"},
		{"Don Louis Special Steak", 8.50, "Premium cut steak sandwich"},
	}},
	{Name: "Burgers", Items: []seedItem{
		{"Beef Burger", 5.50, "Homemade patty"},
		{"Chicken Burger", 5.50, "Grilled or fried"},
		{"Don Louis Special Burger", 7.00, "Loaded with extras"},
		{"Add Combo", 2.30, "Fries + Coleslaw + Drink"},
	}},
	{Name: "Mashewe", Items: []seedItem{
		{"Taouk Sandwich", 4.50, "Marinated chicken skewers"},
		{"Castaletta Cube Sandwich", 6.50, "Lamb cubes"},
		{"Kafta Sandwich", 4.50, "Minced meat with parsley"},
		{"Kabab Halabi Sandwich", 4.50, "Spicy tomato sauce"},
		{"Kabab Orfali Sandwich", 5.00, "With grilled vegetables"},
		{"Kabab Intable Sandwich", 5.50, "Yogurt garlic sauce"},
		{"Mixed Grill Plat", 15.00, "Selection of BBQ skewers"},
		{"Soujouk 3al Sikh Sandwich", 5.50, "Grilled soujouk"},
		{"Half Boneless Chicken", 9.50, "Charcoal grilled"},
		{"Char-Grilled Chicken Platter", 15.00, "Whole chicken platter"},
		{"Aarayes Don Louis", 8.50, "Meat stuffed pita"},
	}},
	{Name: "Sweet Tooth", Items: []seedItem{
		{"Choco Banana", 4.50, "Chocolate spread & banana"},
		{"Choco Cheese", 5.00, "Sweet cheese mix"},
		{"Tine Cheese", 5.50, "Figs and cheese"},
	}},
	{Name: "Soft Drinks", Items: []seedItem{
		{"Pepsi / 7up / Mirinda", 1.00, "Canned soda"},
		{"Laban Ayran", 0.85, "Yogurt drink"},
		{"Ice Tea", 1.25, "Peach or Lemon"},
		{"Sparkling Water", 1.00, "Perrier or similar"},
		{"Water", 0.40, "Small bottle"},
		{"Juice", 0.50, "Fruit juice box"},
		{"Beer", 2.00, "Local beer"},
	}},
}

var rewardSeed = []models.Reward{
	{Title: "Free Delivery", PointsCost: 50, GrantType: models.GrantFreeDelivery},
	{Title: "Free Fries", PointsCost: 80, GrantType: models.GrantFreeItem, TargetItemName: "Fries"},
	{Title: "10% Off Your Order", PointsCost: 100, GrantType: models.GrantDiscountPercent, Value: 10},
	{Title: "Free Beef Burger", PointsCost: 150, GrantType: models.GrantFreeItem, TargetItemName: "Beef Burger"},
	{Title: "25% Off Your Order", PointsCost: 300, GrantType: models.GrantDiscountPercent, Value: 25},
}

var demoCustomers int

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the house menu and reward rules into the database",
	Long: `Creates the menu categories, items and reward rules, updating any that
already exist by name. With --demo-customers it also adds fake customer
profiles for local testing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		if err := config.ConnectDB(settings.DBURL); err != nil {
			return err
		}
		if err := models.AutoMigrate(config.DB); err != nil {
			return err
		}
		return config.DB.Transaction(func(tx *gorm.DB) error {
			if err := seedMenu(tx); err != nil {
				return err
			}
			if err := seedRewards(tx); err != nil {
				return err
			}
			return seedCustomers(tx, demoCustomers)
		})
	},
}

func init() {
	seedCmd.Flags().IntVar(&demoCustomers, "demo-customers", 0, "number of fake customer profiles to create")
}

func seedMenu(tx *gorm.DB) error {
	items := 0
	for i, sc := range menuSeed {
		var category models.Category
		err := tx.Where("name = ?", sc.Name).First(&category).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			category = models.Category{Name: sc.Name, SortOrder: i + 1}
			if err := tx.Create(&category).Error; err != nil {
				return fmt.Errorf("create category %s: %w", sc.Name, err)
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&category).Update("sort_order", i+1).Error; err != nil {
				return err
			}
		}

		for _, si := range sc.Items {
			var item models.MenuItem
			err := tx.Where("category_id = ? AND name = ?", category.ID, si.Name).First(&item).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				item = models.MenuItem{
					CategoryID:  category.ID,
					Name:        si.Name,
					Price:       si.Price,
					Description: si.Description,
					IsAvailable: true,
				}
				if err := tx.Create(&item).Error; err != nil {
					return fmt.Errorf("create item %s: %w", si.Name, err)
				}
			case err != nil:
				return err
			default:
				if err := tx.Model(&item).Updates(map[string]interface{}{
					"price":       si.Price,
					"description": si.Description,
				}).Error; err != nil {
					return err
				}
			}
			items++
		}
	}
	config.Log.Info("menu seeded", zap.Int("categories", len(menuSeed)), zap.Int("items", items))
	return nil
}

func seedRewards(tx *gorm.DB) error {
	for _, r := range rewardSeed {
		if err := services.ValidateReward(r); err != nil {
			return err
		}
		var existing models.Reward
		err := tx.Where("title = ?", r.Title).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			reward := r
			if err := tx.Create(&reward).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		if err := tx.Model(&existing).Updates(map[string]interface{}{
			"points_cost":      r.PointsCost,
			"grant_type":       r.GrantType,
			"value":            r.Value,
			"target_item_name": r.TargetItemName,
		}).Error; err != nil {
			return err
		}
	}
	config.Log.Info("rewards seeded", zap.Int("count", len(rewardSeed)))
	return nil
}

func seedCustomers(tx *gorm.DB, n int) error {
	if n <= 0 {
		return nil
	}
	fake := faker.New()
	for i := 0; i < n; i++ {
		zone := models.DeliveryZones[fake.IntBetween(0, len(models.DeliveryZones)-1)]
		profile := demoProfile(fake, zone)
		if err := tx.Where("phone = ?", profile.Phone).FirstOrCreate(&profile).Error; err != nil {
			return err
		}
	}
	config.Log.Info("demo customers seeded", zap.Int("count", n))
	return nil
}

func demoProfile(fake faker.Faker, zone models.DeliveryZone) models.Profile {
	return models.Profile{
		Phone:         "+9617" + fake.Numerify("#######"),
		FullName:      fake.Person().Name(),
		Points:        fake.IntBetween(0, 600),
		ReferralCount: fake.IntBetween(0, 3),
		SavedAddresses: []models.SavedAddress{{
			Label:   "Home",
			Address: fake.Address().StreetAddress(),
			ZoneID:  zone.ID,
		}},
	}
}
