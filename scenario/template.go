package scenario

// Template is the scenario written by "finsim init". It is a valid scenario
// on its own.
const Template = `# finsim scenario
name: Household and employer
start: 2024-01-01
days: 365
currency: EUR

entities:
  - name: alice
    kind: individual
    bank: current
    accounts:
      - name: current
        type: personal_current
        opening: 1500.00
      - name: savings
        type: personal_savings
        opening: 10000.00
    expenses:
      - category: rent
        amount: 1250.00
        schedule: {monthly: 1}
      - category: groceries
        amount: 85.50
        schedule: {weekly: saturday}
      - category: insurance
        amount: 640.00
        schedule: {yearly: 03-01}

  - name: acme
    kind: corporation
    accounts:
      - name: business
        type: business_current
        opening: 100000.00
      - name: deposit
        type: custom
        rate:
          type: banded
          bands:
            - from: 0
              rate: {type: periodic, annual: 0.02, periods: 12}
            - from: 250000
              rate: {type: continuous, annual: 0.01}
        interest: {monthly: 1}
        fees:
          - description: Custody fee
            amount: 12.50
            schedule: {any: [{yearly: 01-15}, {yearly: 07-15}]}
        fee_payment: {monthly: 20}
        yearly_journal: true
    salaries:
      - employee: alice
        day: 25
        net: 2750.00
        health_insurance: 180.00
        wage_tax: 870.00
    income:
      - category: sales
        amount: 7500.00
        schedule: {monthly: 10}
`

// Default returns the parsed Template.
func Default() (*Config, error) {
	return Parse([]byte(Template))
}
